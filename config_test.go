package foundry

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tfkr-ae/foundry/carousel"
)

func readConfigFile(t *testing.T, dir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	return string(content)
}

func TestWithConfigDir(t *testing.T) {
	t.Run("should write the defaults on first run", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "foundry")
		app, err := New(WithConfigDir(dir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if !reflect.DeepEqual(app.Config, DefaultConfig()) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", DefaultConfig(), app.Config)
		}
		content := readConfigFile(t, dir)
		for _, key := range []string{"listen_port", "database", "items_per_page", "transition"} {
			if !strings.Contains(content, key) {
				t.Fatalf("wanted %q in config file, got:\n%s", key, content)
			}
		}
	})

	t.Run("should keep file values and add missing keys", func(t *testing.T) {
		dir := t.TempDir()
		existing := "listen_port: \"7000\"\ncarousel:\n  mode: paged\n  items_per_page: 2\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(existing), 0600); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		app, err := New(WithConfigDir(dir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if app.Config.ListenPort != "7000" {
			t.Fatalf("\nwanted:\n7000\ngot:\n%s", app.Config.ListenPort)
		}
		cfg, err := app.Config.ParseCarousel()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if cfg.Mode != carousel.Paged || cfg.ItemsPerPage != 2 || cfg.Interval != 3*time.Second {
			t.Fatalf("unexpected carousel config %+v", cfg)
		}
		if !strings.Contains(readConfigFile(t, dir), "format_html") {
			t.Fatalf("wanted the missing key to be written")
		}
	})

	t.Run("should apply environment overrides without persisting them", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("FOUNDRY_LISTEN_PORT", "9090")
		t.Setenv("FOUNDRY_CAROUSEL_INTERVAL", "5s")

		app, err := New(WithConfigDir(dir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if app.Config.ListenPort != "9090" || app.Config.Carousel.Interval != "5s" {
			t.Fatalf("unexpected config %+v", app.Config)
		}
		content := readConfigFile(t, dir)
		if strings.Contains(content, "9090") || strings.Contains(content, "5s") {
			t.Fatalf("wanted overrides to stay out of the file, got:\n%s", content)
		}
	})

	t.Run("should load a .env file from the config dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Cleanup(func() { os.Unsetenv("FOUNDRY_FORMAT_HTML") })
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FOUNDRY_FORMAT_HTML=false\n"), 0600); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		app, err := New(WithConfigDir(dir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if app.Config.FormatHTML {
			t.Fatalf("\nwanted:\nfalse\ngot:\ntrue")
		}
	})

	t.Run("should reject an invalid carousel section", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("carousel:\n  interval: soon\n"), 0600); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if _, err := New(WithConfigDir(dir)); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}

func TestConfig_ParseCarousel(t *testing.T) {
	cfg, err := DefaultConfig().ParseCarousel()
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if cfg != carousel.DefaultConfig() {
		t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", carousel.DefaultConfig(), cfg)
	}

	bad := DefaultConfig()
	bad.Carousel.Transition = "4s"
	if _, err := bad.ParseCarousel(); err == nil {
		t.Fatalf("\nwanted:\nerror for a transition longer than the interval\ngot:\nnil")
	}
}

// writeKeyPair writes a self-signed certificate for localhost.
func writeKeyPair(t *testing.T, dir string) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}

	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600); err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0600); err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	return certPath, keyPath
}

func TestConfig_TLSConfig(t *testing.T) {
	t.Run("should be nil without a key pair", func(t *testing.T) {
		tlsConfig, err := DefaultConfig().TLSConfig()
		if err != nil || tlsConfig != nil {
			t.Fatalf("\nwanted:\nnil, nil\ngot:\n%v, %v", tlsConfig, err)
		}
	})

	t.Run("should require both files", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TLSCertFile = "cert.pem"
		if _, err := cfg.TLSConfig(); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should load a key pair", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TLSCertFile, cfg.TLSKeyFile = writeKeyPair(t, t.TempDir())
		tlsConfig, err := cfg.TLSConfig()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(tlsConfig.Certificates) != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", len(tlsConfig.Certificates))
		}
	})
}
