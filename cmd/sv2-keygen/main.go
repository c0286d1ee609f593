// sv2-keygen: create an authority keypair plus a certified static key
// in the keystore, and print the authority public key.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"dev.c0redev.sv2/internal/config"
	"dev.c0redev.sv2/internal/keystore"
	"dev.c0redev.sv2/internal/noise"
)

func main() {
	cfgPath := flag.String("config", "", "toml config file")
	name := flag.String("name", "", "authority name (default from config)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *name != "" {
		cfg.AuthorityName = *name
	}

	db, err := keystore.Open(cfg.KeystorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.KeystorePath).Msg("open keystore")
	}
	defer db.Close()

	auth, err := db.AuthorityByName(cfg.AuthorityName)
	if err != nil {
		log.Fatal().Err(err).Msg("lookup authority")
	}
	if auth == nil {
		kp, err := noise.GenerateAuthorityKeyPair()
		if err != nil {
			log.Fatal().Err(err).Msg("generate authority")
		}
		id, err := db.CreateAuthority(cfg.AuthorityName, kp)
		if err != nil {
			log.Fatal().Err(err).Msg("store authority")
		}
		auth = &keystore.Authority{ID: id, Name: cfg.AuthorityName, KeyPair: *kp}
		log.Info().Str("name", cfg.AuthorityName).Msg("authority created")
	}

	cert, err := db.ActiveCertificate(auth.ID, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("lookup certificate")
	}
	if cert == nil {
		static, err := noise.GenerateStaticKeyPair()
		if err != nil {
			log.Fatal().Err(err).Msg("generate static key")
		}
		c := noise.SignCertificate(&auth.KeyPair, static.Public, cfg.CertValidity)
		if _, err := db.SaveCertificate(auth.ID, static, c); err != nil {
			log.Fatal().Err(err).Msg("store certificate")
		}
		static.Zeroize()
		log.Info().
			Time("not_valid_after", time.Unix(int64(c.NotValidAfter), 0).UTC()).
			Msg("certificate issued")
	}

	pub, err := noise.EncodeKey(auth.KeyPair.Public)
	if err != nil {
		log.Fatal().Err(err).Msg("encode key")
	}
	os.Stdout.WriteString(pub + "\n")
}
