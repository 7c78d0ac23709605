// Package registry has a registration method that named concurrency types
// (worker pools, runtimes) can use to claim a process-unique name. This is
// useful to allow gathering of stats data for OTEL enabled applications.
package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// A Member is a named entity that can be registered. The empty name is
// allowed and means "do not register", which is useful for short lived
// members that are created and torn down instead of living for the lifetime
// of the program.
type Member interface {
	GetName() string
}

var registry = map[string]Member{}
var mu = sync.RWMutex{}

// Register registers a name for a member in the registry.
func Register(m Member) error {
	mu.Lock()
	defer mu.Unlock()

	name := m.GetName()
	if name == "" {
		return nil
	}

	if _, ok := registry[name]; ok {
		return fmt.Errorf("name already taken")
	}

	registry[name] = m
	return nil
}

// Unregister unregisters the member from the registry.
func Unregister(m Member) {
	mu.Lock()
	delete(registry, m.GetName())
	mu.Unlock()
}

var numOrHyphen = regexp.MustCompile(`[0-9-\s]`)

// ValidateBaseName returns an error if the name contains numbers, hyphens or
// spaces. Those are reserved for the unique suffixes NewName generates.
func ValidateBaseName(name string) error {
	if numOrHyphen.MatchString(name) {
		return fmt.Errorf("name cannot contain numbers or hyphens")
	}
	return nil
}

// NewName takes the base name of a member and returns a unique name by trying
// the next number until it finds one that is free.
func NewName(name string) string {
	if !strings.Contains(name, "-") {
		return name + "-1"
	}

	base, num, _ := strings.Cut(name, "-")
	n, err := strconv.Atoi(num)
	if err != nil {
		panic(fmt.Sprintf("registry is broken, name %s is invalid", name))
	}

	n++
	return fmt.Sprintf("%s-%d", base, n)
}

// Members returns all members registered by this package. Order is
// non-deterministic.
func Members() chan Member {
	ch := make(chan Member, 1)
	go func() {
		defer close(ch)
		mu.RLock()
		defer mu.RUnlock()
		for _, m := range registry {
			ch <- m
		}
	}()
	return ch
}
