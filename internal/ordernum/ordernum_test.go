package ordernum

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

var numberPattern = regexp.MustCompile(`^HV-\d{8}-[` + Alphabet + `]{4}$`)

func TestGenerateFormat(t *testing.T) {
	at := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	number, err := Generate("HV", at)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !numberPattern.MatchString(number) {
		t.Fatalf("unexpected number format: %s", number)
	}
	if !strings.HasPrefix(number, "HV-20240307-") {
		t.Fatalf("expected date component 20240307, got %s", number)
	}
}

func TestGenerateExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1I" {
		if strings.ContainsRune(Alphabet, c) {
			t.Fatalf("alphabet must not contain %q", c)
		}
	}
	at := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		number, err := Generate("HV", at)
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		token := number[len(number)-4:]
		if strings.ContainsAny(token, "0O1I") {
			t.Fatalf("token %q contains an ambiguous character", token)
		}
	}
}

// The date component is fixed at generation time: a checkout that starts
// before midnight keeps its date even if the commit lands on the next day.
func TestAllocateUsesFixedClock(t *testing.T) {
	a := &Allocator{
		Prefix: "HV",
		Now:    func() time.Time { return time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC) },
		Exists: func(ctx context.Context, number string) (bool, error) { return false, nil },
	}
	number, err := a.Allocate(context.Background())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if !strings.HasPrefix(number, "HV-20241231-") {
		t.Fatalf("expected date fixed at 20241231, got %s", number)
	}
}

func TestAllocateNeverPersistsDuplicates(t *testing.T) {
	seen := make(map[string]bool, 10000)
	a := &Allocator{
		Prefix: "HV",
		Exists: func(ctx context.Context, number string) (bool, error) {
			return seen[number], nil
		},
	}
	for i := 0; i < 10000; i++ {
		number, err := a.Allocate(context.Background())
		if err != nil {
			t.Fatalf("Allocate failed at iteration %d: %v", i, err)
		}
		if seen[number] {
			t.Fatalf("duplicate number persisted: %s", number)
		}
		seen[number] = true
	}
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	probes := 0
	a := &Allocator{
		Prefix: "HV",
		Exists: func(ctx context.Context, number string) (bool, error) {
			probes++
			return probes < 3, nil
		},
	}
	number, err := a.Allocate(context.Background())
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if probes != 3 {
		t.Fatalf("expected 3 probes, got %d", probes)
	}
	if number == "" {
		t.Fatal("expected a number after retries")
	}
}

func TestAllocateExhaustsAfterFiveCollisions(t *testing.T) {
	probes := 0
	a := &Allocator{
		Prefix: "HV",
		Exists: func(ctx context.Context, number string) (bool, error) {
			probes++
			return true, nil
		},
	}
	_, err := a.Allocate(context.Background())
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if probes != 5 {
		t.Fatalf("expected exactly 5 attempts, got %d", probes)
	}
}

func TestAllocatePropagatesProbeError(t *testing.T) {
	probeErr := errors.New("connection reset")
	a := &Allocator{
		Prefix: "HV",
		Exists: func(ctx context.Context, number string) (bool, error) {
			return false, probeErr
		},
	}
	_, err := a.Allocate(context.Background())
	if !errors.Is(err, probeErr) {
		t.Fatalf("expected probe error to propagate, got %v", err)
	}
}
