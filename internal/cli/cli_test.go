package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casa/internal/core"
)

type runner struct {
	t      *testing.T
	dbPath string
}

func newRunner(t *testing.T) runner {
	t.Helper()
	for _, key := range []string{"DATA_BACKEND", "AMQP_URL", "LOG_LEVEL", "SAVINGS_TARGET"} {
		t.Setenv(key, "")
	}
	return runner{t: t, dbPath: filepath.Join(t.TempDir(), "casa.db")}
}

func (r runner) run(args ...string) (string, error) {
	r.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--backend", "sqlite", "--db", r.dbPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (r runner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	if err != nil {
		r.t.Fatalf("casa %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestLedgerWorkflow(t *testing.T) {
	r := newRunner(t)

	if out := r.mustRun("migrate"); !strings.Contains(out, "up to date") {
		t.Fatalf("unexpected migrate output %q", out)
	}
	if out := r.mustRun("account", "add", "Konto", "PLN", "--order", "1"); !strings.Contains(out, "#1 [PLN] Konto") {
		t.Fatalf("unexpected output %q", out)
	}
	r.mustRun("account", "add", "Revolut", "eur", "--order", "2")

	if out := r.mustRun("account", "list"); !strings.Contains(out, "[EUR] Revolut") {
		t.Fatalf("unexpected account list %q", out)
	}

	r.mustRun("rate", "set", "PLN", "0,25")
	r.mustRun("notepad", "set", "kupić", "mleko")
	if out := r.mustRun("notepad", "show"); strings.TrimSpace(out) != "kupić mleko" {
		t.Fatalf("unexpected notepad %q", out)
	}

	if out := r.mustRun("add", "Pensja", "-400", "2024-01-10", "1"); !strings.Contains(out, "Saved #1 Pensja") {
		t.Fatalf("unexpected output %q", out)
	}
	out := r.mustRun("transfer", "1", "2", "100", "20", "2024-02-01")
	if !strings.Contains(out, "Przelew własny: [PLN] Konto (#1) → [EUR] Revolut (#2)") {
		t.Fatalf("unexpected transfer output %q", out)
	}

	report := r.mustRun("report")
	for _, want := range []string{
		"[PLN] Konto",
		"300",
		"[EUR] Revolut",
		"luty 2024",
		"styczeń 2024",
		"NOTEPAD",
		"Pensja (+400 zł)",
		"bilans -100",
		"przychody 20",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("expected %q in report:\n%s", want, report)
		}
	}
	if strings.Contains(report, "visits") {
		t.Errorf("report must not count page views:\n%s", report)
	}

	filtered := r.mustRun("report", "--month", "2024-01")
	if strings.Contains(filtered, "luty 2024") || !strings.Contains(filtered, "styczeń 2024") {
		t.Errorf("month filter not applied:\n%s", filtered)
	}
}

func TestCommandErrors(t *testing.T) {
	r := newRunner(t)
	r.mustRun("account", "add", "Konto", "PLN")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown currency", []string{"account", "add", "Konto", "CHF"}, core.ErrInvalidCurrency},
		{"bad amount", []string{"add", "x", "1e3", "2024-01-01", "1"}, core.ErrInvalidAmount},
		{"bad date", []string{"add", "x", "1", "2024-02-30", "1"}, core.ErrInvalidDate},
		{"unknown account", []string{"add", "x", "1", "2024-01-01", "7"}, core.ErrAccountNotFound},
		{"same account transfer", []string{"transfer", "1", "1", "1", "1", "2024-01-01"}, core.ErrSameAccount},
		{"bad month filter", []string{"report", "--month", "2024-13"}, core.ErrInvalidMonthKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.run(tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMigrateRequiresSQLite(t *testing.T) {
	newRunner(t)
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--backend", "memory", "migrate"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected migrate to fail on the memory backend")
	}
}

func TestEventsWatchRequiresAMQP(t *testing.T) {
	r := newRunner(t)
	if _, err := r.run("events", "watch"); err == nil || !strings.Contains(err.Error(), "AMQP_URL") {
		t.Fatalf("expected AMQP_URL error, got %v", err)
	}
}

func TestImportSeed(t *testing.T) {
	r := newRunner(t)
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	data := "accounts:\n  - {name: Konto, currency: PLN, order: 1}\n  - {name: Revolut, currency: EUR, order: 2}\nrates:\n  PLN: \"0.25\"\n"
	if err := os.WriteFile(seedPath, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if out := r.mustRun("import", seedPath); !strings.Contains(out, "Imported 2 accounts (0 already present), 1 rates") {
		t.Fatalf("unexpected import output %q", out)
	}
	if out := r.mustRun("import", seedPath); !strings.Contains(out, "Imported 0 accounts (2 already present)") {
		t.Fatalf("unexpected second import output %q", out)
	}
	if out := r.mustRun("account", "list"); !strings.Contains(out, "[PLN] Konto") || !strings.Contains(out, "[EUR] Revolut") {
		t.Fatalf("unexpected account list %q", out)
	}
}
