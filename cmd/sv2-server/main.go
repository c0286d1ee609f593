// sv2-server: listens for encrypted sessions, answers connection setup,
// and logs everything else it receives.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"dev.c0redev.sv2/internal/config"
	"dev.c0redev.sv2/internal/keystore"
	"dev.c0redev.sv2/internal/message"
	"dev.c0redev.sv2/internal/noise"
	"dev.c0redev.sv2/internal/transport"
)

const protocolVersion = 2

func main() {
	cfgPath := flag.String("config", "", "toml config file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := keystore.Open(cfg.KeystorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.KeystorePath).Msg("open keystore")
	}
	defer db.Close()

	static, cert, authorityPub, err := identity(db, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server identity")
	}
	defer static.Zeroize()

	pub, err := noise.EncodeKey(authorityPub)
	if err != nil {
		log.Fatal().Err(err).Msg("encode key")
	}
	log.Info().Str("authority", pub).Str("addr", cfg.Addr).Bool("quic", cfg.QUIC).Msg("listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accept, err := listener(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("listen")
	}

	for {
		conn, err := accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("shutting down")
				return
			}
			log.Error().Err(err).Msg("accept")
			continue
		}
		go serveConn(log, conn, static, cert, cfg.HandshakeTimeout)
	}
}

// identity loads (or creates) the authority and an active certified static
// key from the keystore.
func identity(db *keystore.DB, cfg config.Config) (*noise.StaticKeyPair, noise.Certificate, []byte, error) {
	auth, err := db.AuthorityByName(cfg.AuthorityName)
	if err != nil {
		return nil, noise.Certificate{}, nil, err
	}
	if auth == nil {
		kp, err := noise.GenerateAuthorityKeyPair()
		if err != nil {
			return nil, noise.Certificate{}, nil, err
		}
		id, err := db.CreateAuthority(cfg.AuthorityName, kp)
		if err != nil {
			return nil, noise.Certificate{}, nil, err
		}
		auth = &keystore.Authority{ID: id, Name: cfg.AuthorityName, KeyPair: *kp}
	}
	stored, err := db.ActiveCertificate(auth.ID, time.Now())
	if err != nil {
		return nil, noise.Certificate{}, nil, err
	}
	if stored == nil {
		static, err := noise.GenerateStaticKeyPair()
		if err != nil {
			return nil, noise.Certificate{}, nil, err
		}
		cert := noise.SignCertificate(&auth.KeyPair, static.Public, cfg.CertValidity)
		if _, err := db.SaveCertificate(auth.ID, static, cert); err != nil {
			static.Zeroize()
			return nil, noise.Certificate{}, nil, err
		}
		return static, cert, auth.KeyPair.Public, nil
	}
	static := stored.Static
	return &static, stored.Cert, auth.KeyPair.Public, nil
}

func listener(ctx context.Context, cfg config.Config) (func() (net.Conn, error), error) {
	if cfg.QUIC {
		tlsConfig, err := transport.SelfSignedQUICServerTLS()
		if err != nil {
			return nil, err
		}
		ln, err := transport.ListenQUIC(cfg.Addr, tlsConfig)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			ln.Close()
		}()
		return func() (net.Conn, error) { return transport.AcceptQUIC(ctx, ln) }, nil
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	return ln.Accept, nil
}

func serveConn(log zerolog.Logger, conn net.Conn, static *noise.StaticKeyPair, cert noise.Certificate, timeout time.Duration) {
	log = log.With().Str("peer", conn.RemoteAddr().String()).Logger()

	sess, err := transport.ServerWithStatic(conn, static, cert, timeout)
	if err != nil {
		log.Warn().Err(err).Msg("handshake")
		conn.Close()
		return
	}
	defer sess.Close()
	log.Info().Msg("session established")

	for {
		m, err := sess.ReceiveMessage()
		if err != nil {
			if errors.Is(err, transport.ErrTransportClosed) {
				log.Info().Msg("peer closed")
			} else {
				log.Warn().Err(err).Msg("receive")
			}
			return
		}
		switch m := m.(type) {
		case *message.SetupConnection:
			log.Info().
				Uint8("protocol", m.Protocol).
				Str("endpoint", m.EndpointHost).
				Str("device", m.DeviceID).
				Msg("setup connection")
			if m.MinVersion > protocolVersion || m.MaxVersion < protocolVersion {
				reply := &message.SetupConnectionError{ErrorCode: "protocol-version-mismatch"}
				if err := sess.SendMessage(reply); err != nil {
					log.Warn().Err(err).Msg("send")
					return
				}
				continue
			}
			reply := &message.SetupConnectionSuccess{UsedVersion: protocolVersion, Flags: m.Flags}
			if err := sess.SendMessage(reply); err != nil {
				log.Warn().Err(err).Msg("send")
				return
			}
		case *message.Unknown:
			log.Info().
				Uint16("extension", m.Extension).
				Uint8("type", m.Type).
				Int("payload", len(m.Payload)).
				Msg("unknown message, skipping")
		default:
			log.Info().
				Uint8("type", m.MessageType()).
				Msg("message")
		}
	}
}
