package keystore

import (
	"bytes"
	"testing"
	"time"

	"dev.c0redev.sv2/internal/noise"
)

func TestOpenMemory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestAuthorityRoundtrip(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	kp, err := noise.GenerateAuthorityKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	id, err := db.CreateAuthority("pool-authority", kp)
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatal("expected positive authority id")
	}

	a, err := db.AuthorityByName("pool-authority")
	if err != nil || a == nil {
		t.Fatal("AuthorityByName", err)
	}
	if a.ID != id || !bytes.Equal(a.KeyPair.Public, kp.Public) || !bytes.Equal(a.KeyPair.Private, kp.Private) {
		t.Fatalf("authority mismatch: %+v", a)
	}

	if _, err := db.CreateAuthority("pool-authority", kp); err == nil {
		t.Fatal("duplicate name should fail")
	}
	if missing, err := db.AuthorityByName("nope"); err != nil || missing != nil {
		t.Fatalf("missing authority: %v %v", missing, err)
	}
}

func TestCertificateLifecycle(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	kp, _ := noise.GenerateAuthorityKeyPair()
	aid, err := db.CreateAuthority("a", kp)
	if err != nil {
		t.Fatal(err)
	}

	if c, err := db.ActiveCertificate(aid, time.Now()); err != nil || c != nil {
		t.Fatalf("empty store: %v %v", c, err)
	}

	static, _ := noise.GenerateStaticKeyPair()
	cert := noise.SignCertificate(kp, static.Public, time.Hour)
	cid, err := db.SaveCertificate(aid, static, cert)
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.ActiveCertificate(aid, time.Now())
	if err != nil || got == nil {
		t.Fatal("ActiveCertificate", err)
	}
	if got.ID != cid || got.Static.Public != static.Public || got.Cert != cert {
		t.Fatalf("certificate mismatch: %+v", got)
	}
	// the loaded keypair must still verify and still work as a responder key
	if !got.Cert.Verify(kp.Public, got.Static.Public, time.Now()) {
		t.Fatal("loaded certificate does not verify")
	}

	// expired certificates are filtered out
	if c, err := db.ActiveCertificate(aid, time.Now().Add(2*time.Hour)); err != nil || c != nil {
		t.Fatalf("expired cert returned: %+v %v", c, err)
	}

	// newest valid certificate wins
	static2, _ := noise.GenerateStaticKeyPair()
	cert2 := noise.SignCertificate(kp, static2.Public, time.Hour)
	cid2, err := db.SaveCertificate(aid, static2, cert2)
	if err != nil {
		t.Fatal(err)
	}
	got, err = db.ActiveCertificate(aid, time.Now())
	if err != nil || got == nil || got.ID != cid2 {
		t.Fatalf("newest cert not selected: %+v %v", got, err)
	}
}
