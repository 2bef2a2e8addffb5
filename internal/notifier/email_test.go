package notifier

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/amishk599/careerwatch/internal/config"
	"github.com/amishk599/careerwatch/internal/model"
)

// --- in-process SMTP server ---

type receivedMessage struct {
	From string
	To   []string
	Data []byte
}

type testBackend struct {
	username string
	password string

	mu       sync.Mutex
	sessions int
	messages []receivedMessage
}

func (b *testBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	b.mu.Lock()
	b.sessions++
	b.mu.Unlock()
	return &testSession{backend: b}, nil
}

func (b *testBackend) received() []receivedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]receivedMessage(nil), b.messages...)
}

type testSession struct {
	backend *testBackend
	authed  bool
	from    string
	to      []string
}

func (s *testSession) AuthMechanisms() []string { return []string{sasl.Plain} }

func (s *testSession) Auth(_ string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != s.backend.username || password != s.backend.password {
			return errors.New("invalid credentials")
		}
		s.authed = true
		return nil
	}), nil
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, receivedMessage{From: s.from, To: s.to, Data: data})
	s.backend.mu.Unlock()
	return nil
}

func (s *testSession) Reset()        { s.from, s.to = "", nil }
func (s *testSession) Logout() error { return nil }

// startSMTPServer runs a STARTTLS-capable server on loopback that refuses
// AUTH on a plaintext connection. It returns the port and a client TLS
// config trusting the server certificate.
func startSMTPServer(t *testing.T, be *testBackend) (int, *tls.Config) {
	t.Helper()
	cert, pool := selfSignedCert(t)

	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	srv.AllowInsecureAuth = false
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(l)
	t.Cleanup(func() { srv.Close() })

	return l.Addr().(*net.TCPAddr).Port, &tls.Config{RootCAs: pool}
}

func selfSignedCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "careerwatch test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parsing certificate: %v", err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, pool
}

func staticSettings(port int, password string) func() (config.SMTPConfig, error) {
	return func() (config.SMTPConfig, error) {
		return config.SMTPConfig{
			Sender:    "alerts@example.com",
			Recipient: "me@example.com",
			Server:    "127.0.0.1",
			Port:      port,
			Username:  "alerts",
			Password:  password,
		}, nil
	}
}

// --- tests ---

func TestEmailNotifier_SendsOneMessage(t *testing.T) {
	be := &testBackend{username: "alerts", password: "s3cret"}
	port, clientTLS := startSMTPServer(t, be)

	n := NewEmailNotifier(staticSettings(port, "s3cret"), clientTLS, discardLogger())
	if err := n.Notify(sampleJobs()); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	msgs := be.received()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 message, got %d", len(msgs))
	}
	got := msgs[0]
	if got.From != "alerts@example.com" {
		t.Errorf("MAIL FROM = %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "me@example.com" {
		t.Errorf("RCPT TO = %v", got.To)
	}

	e, err := message.Read(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("parsing message: %v", err)
	}
	h := mail.Header{Header: e.Header}
	subject, err := h.Subject()
	if err != nil {
		t.Fatalf("decoding subject: %v", err)
	}
	if subject != AlertSubject {
		t.Errorf("subject = %q, want %q", subject, AlertSubject)
	}
	if !strings.Contains(subject, "New Job Listings Found") {
		t.Errorf("subject %q is missing the alert marker", subject)
	}

	raw, err := io.ReadAll(e.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	body := strings.ReplaceAll(string(raw), "\r\n", "\n")
	paragraphs := strings.Split(strings.TrimSpace(body), "\n\n")
	want := []string{
		"Netflix: Coordinator - Team A - Remote",
		"Wrapbook: Ops Lead - /careers/ops-lead",
	}
	if len(paragraphs) != len(want) {
		t.Fatalf("body paragraphs = %q, want %q", paragraphs, want)
	}
	for i := range want {
		if paragraphs[i] != want[i] {
			t.Errorf("paragraph[%d] = %q, want %q", i, paragraphs[i], want[i])
		}
	}
}

func TestEmailNotifier_EmptyJobsSkipsSettings(t *testing.T) {
	called := false
	n := NewEmailNotifier(func() (config.SMTPConfig, error) {
		called = true
		return config.SMTPConfig{}, nil
	}, nil, discardLogger())

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if called {
		t.Error("settings should not be resolved when there is nothing to send")
	}
}

func TestEmailNotifier_MissingConfigFailsBeforeDialing(t *testing.T) {
	be := &testBackend{username: "alerts", password: "s3cret"}
	startSMTPServer(t, be)

	n := NewEmailNotifier(func() (config.SMTPConfig, error) {
		return config.SMTPConfig{}, &model.ConfigError{Missing: []string{"SMTP_SERVER"}}
	}, nil, discardLogger())

	err := n.Notify(sampleJobs())
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *model.ConfigError, got %v", err)
	}
	be.mu.Lock()
	defer be.mu.Unlock()
	if be.sessions != 0 {
		t.Errorf("expected no SMTP session, got %d", be.sessions)
	}
}

func TestEmailNotifier_AuthFailure(t *testing.T) {
	be := &testBackend{username: "alerts", password: "s3cret"}
	port, clientTLS := startSMTPServer(t, be)

	n := NewEmailNotifier(staticSettings(port, "wrong"), clientTLS, discardLogger())
	err := n.Notify(sampleJobs())
	if err == nil {
		t.Fatal("expected auth error, got nil")
	}
	if !strings.Contains(err.Error(), "smtp auth") {
		t.Errorf("error = %v, want smtp auth failure", err)
	}
	if len(be.received()) != 0 {
		t.Error("no message should be delivered after a failed login")
	}
}

func TestEmailNotifier_UntrustedCertificate(t *testing.T) {
	be := &testBackend{username: "alerts", password: "s3cret"}
	port, _ := startSMTPServer(t, be)

	// No RootCAs: the self-signed certificate must be rejected.
	n := NewEmailNotifier(staticSettings(port, "s3cret"), nil, discardLogger())
	if err := n.Notify(sampleJobs()); err == nil {
		t.Fatal("expected STARTTLS verification error, got nil")
	}
	if len(be.received()) != 0 {
		t.Error("no message should be delivered over an unverified session")
	}
}

func TestBuildMessage_Headers(t *testing.T) {
	date := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	raw, err := buildMessage("a@example.com", "b@example.com", "hello", date)
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}

	e, err := message.Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	h := mail.Header{Header: e.Header}

	from, err := h.AddressList("From")
	if err != nil || len(from) != 1 || from[0].Address != "a@example.com" {
		t.Errorf("From = %v (%v)", from, err)
	}
	to, err := h.AddressList("To")
	if err != nil || len(to) != 1 || to[0].Address != "b@example.com" {
		t.Errorf("To = %v (%v)", to, err)
	}
	got, err := h.Date()
	if err != nil || !got.Equal(date) {
		t.Errorf("Date = %v (%v), want %v", got, err, date)
	}
	mediaType, params, err := h.ContentType()
	if err != nil || mediaType != "text/plain" || params["charset"] != "utf-8" {
		t.Errorf("Content-Type = %s %v (%v)", mediaType, params, err)
	}
}
