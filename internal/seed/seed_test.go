package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"casa/internal/core"
	"casa/internal/memory"
)

const sample = `
accounts:
  - name: Konto
    currency: PLN
    order: 1
  - name: Revolut
    currency: eur
    order: 2
rates:
  PLN: "0.24"
  GBP: 1.17
notepad: "czynsz do 10."
`

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx := context.Background()
	store := memory.New(nil, nil)
	res, err := Apply(ctx, store, f, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := Result{AccountsCreated: 2, RatesSet: 2, NotepadSet: true}
	if res != want {
		t.Fatalf("Apply() = %+v, want %+v", res, want)
	}

	accounts, _ := store.ListAccounts(ctx)
	if len(accounts) != 2 || accounts[0].Label() != "[PLN] Konto" || accounts[1].Label() != "[EUR] Revolut" {
		t.Fatalf("unexpected accounts %v", accounts)
	}
	if r, _, _ := store.ExchangeRateToReference(ctx, core.GBP); r.String() != "1.17" {
		t.Errorf("GBP rate = %s", r)
	}
	if n, _ := store.GetNotepad(ctx); n != "czynsz do 10." {
		t.Errorf("notepad = %q", n)
	}

	again, err := Apply(ctx, store, f, nil)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if again.AccountsCreated != 0 || again.AccountsSkipped != 2 {
		t.Fatalf("second Apply() = %+v, expected accounts skipped", again)
	}
}

func TestApplyRejectsBadFileWithoutWriting(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "unknown currency",
			yaml: "accounts:\n  - {name: Konto, currency: CHF}\n",
			want: core.ErrInvalidCurrency,
		},
		{
			name: "empty name",
			yaml: "accounts:\n  - {name: ' ', currency: PLN}\n",
			want: core.ErrEmptyName,
		},
		{
			name: "negative rate",
			yaml: "accounts:\n  - {name: Konto, currency: PLN}\nrates:\n  USD: \"-1\"\n",
			want: core.ErrInvalidAmount,
		},
		{
			name: "rate for unknown currency",
			yaml: "rates:\n  JPY: \"0.006\"\n",
			want: core.ErrInvalidCurrency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			store := memory.New(nil, nil)
			_, err = Apply(context.Background(), store, f, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, core.ErrParse) {
				t.Fatalf("expected a parse error, got %v", err)
			}
			if accounts, _ := store.ListAccounts(context.Background()); len(accounts) != 0 {
				t.Fatalf("bad file must not write, got %v", accounts)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("accounts: [")); err == nil {
		t.Fatal("expected YAML error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
