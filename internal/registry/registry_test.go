package registry

import (
	"testing"
)

type member string

func (m member) GetName() string { return string(m) }

func TestRegister(t *testing.T) {
	// Not parallel: the registry is process wide state.

	if err := Register(member("alpha")); err != nil {
		t.Fatalf("TestRegister: got err == %s, want err == nil", err)
	}
	defer Unregister(member("alpha"))

	if err := Register(member("alpha")); err == nil {
		t.Errorf("TestRegister: want err != nil for a taken name, got err == nil")
	}
	if err := Register(member("")); err != nil {
		t.Errorf("TestRegister: the empty name must be a no-op, got err == %s", err)
	}
}

func TestUnregister(t *testing.T) {
	if err := Register(member("beta")); err != nil {
		t.Fatalf("TestUnregister: got err == %s, want err == nil", err)
	}
	Unregister(member("beta"))

	if err := Register(member("beta")); err != nil {
		t.Errorf("TestUnregister: name still taken after Unregister: %s", err)
	}
	Unregister(member("beta"))
}

func TestValidateBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		name string
		err  bool
	}{
		{desc: "plain word", name: "pool"},
		{desc: "empty", name: ""},
		{desc: "has a number", name: "pool1", err: true},
		{desc: "has a hyphen", name: "pool-a", err: true},
		{desc: "has a space", name: "pool a", err: true},
	}

	for _, test := range tests {
		err := ValidateBaseName(test.name)
		switch {
		case err == nil && test.err:
			t.Errorf("TestValidateBaseName(%s): want err != nil, got err == nil", test.desc)
		case err != nil && !test.err:
			t.Errorf("TestValidateBaseName(%s): got err == %s, want err == nil", test.desc, err)
		}
	}
}

func TestNewName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		name string
		want string
	}{
		{desc: "first rename", name: "pool", want: "pool-1"},
		{desc: "second rename", name: "pool-1", want: "pool-2"},
		{desc: "large suffix", name: "pool-99", want: "pool-100"},
	}

	for _, test := range tests {
		if got := NewName(test.name); got != test.want {
			t.Errorf("TestNewName(%s): got %q, want %q", test.desc, got, test.want)
		}
	}
}

func TestMembers(t *testing.T) {
	if err := Register(member("gamma")); err != nil {
		t.Fatalf("TestMembers: got err == %s, want err == nil", err)
	}
	defer Unregister(member("gamma"))

	found := false
	for m := range Members() {
		if m.GetName() == "gamma" {
			found = true
		}
	}
	if !found {
		t.Errorf("TestMembers: registered member never came out of Members()")
	}
}
