// Package seed loads accounts, exchange rates and the notepad from a YAML
// file into a ledger store.
package seed

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/ports"
)

// AccountSeed describes one account to create.
type AccountSeed struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	Order    int    `yaml:"order"`
}

// File is the YAML document layout:
//
//	accounts:
//	  - {name: Konto, currency: PLN, order: 1}
//	rates:
//	  PLN: "0.23"
//	notepad: "..."
type File struct {
	Accounts []AccountSeed     `yaml:"accounts"`
	Rates    map[string]string `yaml:"rates"`
	Notepad  *string           `yaml:"notepad"`
}

// Target is the store a seed file is applied to.
type Target interface {
	ports.AccountReader
	ports.Administrator
}

// Result counts what Apply changed.
type Result struct {
	AccountsCreated int
	AccountsSkipped int
	RatesSet        int
	NotepadSet      bool
}

type plan struct {
	accounts []AccountSeed
	currency []core.Currency
	rates    []rate
}

type rate struct {
	currency core.Currency
	value    decimal.Decimal
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

// validate parses every entry so that a bad file writes nothing.
func (f *File) validate() (*plan, error) {
	p := &plan{}
	for i, a := range f.Accounts {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("account %d: %w", i+1, core.ErrEmptyName)
		}
		c, err := core.ParseCurrency(strings.ToUpper(strings.TrimSpace(a.Currency)))
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		a.Name = name
		p.accounts = append(p.accounts, a)
		p.currency = append(p.currency, c)
	}

	for _, code := range slices.Sorted(maps.Keys(f.Rates)) {
		c, err := core.ParseCurrency(strings.ToUpper(code))
		if err != nil {
			return nil, fmt.Errorf("rate: %w", err)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(f.Rates[code]))
		if err != nil || !v.IsPositive() {
			return nil, fmt.Errorf("%w: rate %s %q", core.ErrInvalidAmount, code, f.Rates[code])
		}
		p.rates = append(p.rates, rate{currency: c, value: v})
	}
	return p, nil
}

// Apply writes f into store. Accounts that already exist with the same name
// and currency are skipped, so applying a file twice is harmless.
func Apply(ctx context.Context, store Target, f *File, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.Default(log.ComponentCLI)
	}

	var res Result
	p, err := f.validate()
	if err != nil {
		return res, err
	}

	existing, err := store.ListAccounts(ctx)
	if err != nil {
		return res, err
	}
	known := make(map[string]bool, len(existing))
	for _, a := range existing {
		known[a.Label()] = true
	}

	for i, a := range p.accounts {
		c := p.currency[i]
		label := core.Account{Name: a.Name, Currency: c}.Label()
		if known[label] {
			res.AccountsSkipped++
			logger.DebugContext(ctx, "Account already exists, skipping", log.FieldName, a.Name, log.FieldCurrency, c.String())
			continue
		}
		if _, err := store.CreateAccount(ctx, a.Name, c, a.Order); err != nil {
			return res, fmt.Errorf("create account %s: %w", label, err)
		}
		known[label] = true
		res.AccountsCreated++
	}

	for _, r := range p.rates {
		if err := store.SetExchangeRate(ctx, r.currency, r.value); err != nil {
			return res, fmt.Errorf("set %s rate: %w", r.currency, err)
		}
		res.RatesSet++
	}

	if f.Notepad != nil {
		if err := store.SetNotepad(ctx, *f.Notepad); err != nil {
			return res, fmt.Errorf("set notepad: %w", err)
		}
		res.NotepadSet = true
	}

	logger.InfoContext(ctx, "Seed applied",
		"accounts_created", res.AccountsCreated,
		"accounts_skipped", res.AccountsSkipped,
		"rates_set", res.RatesSet)
	return res, nil
}
