package scope

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

type Account struct {
	owner string
}

// GetOwner loses to the registered accessor.
func (a Account) GetOwner() string { return "method" }

type auditedAccount struct {
	*Account

	Auditor string
}

type Named interface{ Label() string }

type labeled struct{ label string }

func (l labeled) Label() string { return l.label }

type described interface{ Describe() string }

func (l labeled) Describe() string { return "described " + l.label }

type wrapper struct {
	fmt.Stringer
	Named
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestRegistry_Precedence(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "owner", func(a Account) any { return "registered " + a.owner })

	got, err := NewAccessor(reg).Resolve(Account{owner: "ann"}, "owner")
	if err != nil || got != "registered ann" {
		t.Errorf("Resolve(owner) = %v, %v; want registered ann, nil", got, err)
	}
}

func TestRegistry_PointerAndElem(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "owner", func(a Account) any { return a.owner })
	Register(reg, "ptr", func(a *Account) any { return "ptr " + a.owner })

	acc := NewAccessor(reg)

	if got, _ := acc.Resolve(&Account{owner: "bo"}, "owner"); got != "bo" {
		t.Errorf("Resolve(owner) on pointer = %v, want bo", got)
	}

	if got, _ := acc.Resolve(&Account{owner: "bo"}, "ptr"); got != "ptr bo" {
		t.Errorf("Resolve(ptr) = %v, want ptr bo", got)
	}
}

func TestRegistry_EmbeddedStruct(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "owner", func(a *Account) any { return a.owner })

	acc := NewAccessor(reg)
	host := auditedAccount{Account: &Account{owner: "cy"}, Auditor: "dee"}

	if got, _ := acc.Resolve(host, "owner"); got != "cy" {
		t.Errorf("Resolve(owner) = %v, want cy", got)
	}

	if got, _ := acc.Resolve(host, "auditor"); got != "dee" {
		t.Errorf("Resolve(auditor) = %v, want dee", got)
	}

	// A nil embedded pointer hides its table, and its promoted methods
	// cannot be called.
	_, err := acc.Resolve(auditedAccount{}, "owner")
	if !errors.Is(err, ErrPropertyAccess) {
		t.Errorf("Resolve(owner) with nil embed error = %v, want %v",
			err, ErrPropertyAccess)
	}
}

func TestRegistry_Interfaces(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "label", func(n Named) any { return "Named " + n.Label() })
	Register(reg, "summary", func(d described) any { return d.Describe() })

	acc := NewAccessor(reg)
	host := labeled{label: "x"}

	if got, _ := acc.Resolve(host, "label"); got != "Named x" {
		t.Errorf("Resolve(label) = %v, want Named x", got)
	}

	// Every registered interface is searched, not only the first.
	if got, _ := acc.Resolve(host, "summary"); got != "described x" {
		t.Errorf("Resolve(summary) = %v, want described x", got)
	}
}

func TestRegistry_EmbeddedInterfaces(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "label", func(l labeled) any { return "label " + l.label })

	acc := NewAccessor(reg)

	// The second embedded interface is reached after the first misses.
	host := wrapper{Stringer: stringer("s"), Named: labeled{label: "y"}}

	got, err := acc.Resolve(host, "label")
	if err != nil {
		t.Fatal(err)
	}

	if got != "label y" {
		t.Errorf("Resolve(label) = %v, want label y", got)
	}
}

func TestRegistry_Failure(t *testing.T) {
	reg := NewRegistry()
	RegisterFunc(reg, "secret", func(Account) (any, error) {
		return nil, errors.New("access denied")
	})

	_, err := NewAccessor(reg).Resolve(Account{}, "secret")
	if !errors.Is(err, ErrPropertyAccess) {
		t.Fatalf("Resolve(secret) error = %v, want %v", err, ErrPropertyAccess)
	}
}

func TestRegistry_NilUsesDefault(t *testing.T) {
	type local struct{ v int }

	Register(nil, "v", func(l local) any { return l.v })

	got, err := NewAccessor(nil).Resolve(local{v: 9}, "v")
	if err != nil || got != 9 {
		t.Errorf("Resolve(v) = %v, %v; want 9, nil", got, err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	Register(reg, "owner", func(a Account) any { return a.owner })
	Register(reg, "label", func(n Named) any { return n.Label() })

	acc := NewAccessor(reg)

	if got := acc.Names(Account{}); !contains(got, "owner") {
		t.Errorf("Names(Account) = %v, missing owner", got)
	}

	if got := acc.Names(labeled{}); !contains(got, "label") {
		t.Errorf("Names(labeled) = %v, missing label", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry()
	acc := NewAccessor(reg)

	var wg sync.WaitGroup

	for i := range 8 {
		name := fmt.Sprintf("p%d", i)

		wg.Go(func() {
			Register(reg, name, func(a Account) any { return name })
		})
		wg.Go(func() {
			_, _ = acc.Resolve(Account{}, name)
		})
	}

	wg.Wait()

	for i := range 8 {
		name := fmt.Sprintf("p%d", i)
		if got, _ := acc.Resolve(Account{}, name); got != name {
			t.Errorf("Resolve(%s) = %v, want %s", name, got, name)
		}
	}
}
