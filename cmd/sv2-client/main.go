// sv2-client: dials a server, runs the initiator handshake, sends
// SetupConnection and reports the reply.
package main

import (
	"context"
	"flag"
	"net"
	"os"

	"github.com/rs/zerolog"

	"dev.c0redev.sv2/internal/config"
	"dev.c0redev.sv2/internal/message"
	"dev.c0redev.sv2/internal/noise"
	"dev.c0redev.sv2/internal/transport"
)

const protocolVersion = 2

func main() {
	cfgPath := flag.String("config", "", "toml config file")
	authorityKey := flag.String("authority", "", "server authority public key (base58)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *authorityKey != "" {
		cfg.AuthorityKey = *authorityKey
	}
	if cfg.AuthorityKey == "" {
		log.Fatal().Msg("no authority key: pass -authority or set authority_key")
	}
	authorityPub, err := noise.DecodeKey(cfg.AuthorityKey)
	if err != nil {
		log.Fatal().Err(err).Msg("decode authority key")
	}

	sess, err := dial(cfg, authorityPub)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr).Msg("connect")
	}
	defer sess.Close()
	log.Info().Str("addr", cfg.Addr).Bool("quic", cfg.QUIC).Msg("session established")

	host, port := splitEndpoint(cfg.Addr)
	setup := &message.SetupConnection{
		Protocol:     message.ProtocolMining,
		MinVersion:   protocolVersion,
		MaxVersion:   protocolVersion,
		EndpointHost: host,
		EndpointPort: port,
		Vendor:       "sv2",
		DeviceID:     "sv2-client",
	}
	if err := sess.SendMessage(setup); err != nil {
		log.Fatal().Err(err).Msg("send setup")
	}

	reply, err := sess.ReceiveMessage()
	if err != nil {
		log.Fatal().Err(err).Msg("receive")
	}
	switch m := reply.(type) {
	case *message.SetupConnectionSuccess:
		log.Info().Uint16("version", m.UsedVersion).Uint32("flags", m.Flags).Msg("setup accepted")
	case *message.SetupConnectionError:
		log.Error().Str("code", m.ErrorCode).Msg("setup rejected")
		os.Exit(1)
	default:
		log.Error().Uint8("type", m.MessageType()).Msg("unexpected reply")
		os.Exit(1)
	}
}

func dial(cfg config.Config, authorityPub []byte) (*transport.Session, error) {
	if cfg.QUIC {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HandshakeTimeout)
		defer cancel()
		return transport.DialQUICSession(ctx, cfg.Addr, nil, authorityPub, cfg.HandshakeTimeout)
	}
	conn, err := net.DialTimeout("tcp", cfg.Addr, cfg.HandshakeTimeout)
	if err != nil {
		return nil, err
	}
	return transport.Client(conn, authorityPub, cfg.HandshakeTimeout)
}

func splitEndpoint(addr string) (string, uint16) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	p, err := net.LookupPort("tcp", portStr)
	if err != nil {
		return host, 0
	}
	return host, uint16(p)
}
