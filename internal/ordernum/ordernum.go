package ordernum

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Alphabet for the random suffix. 0, O, 1 and I are left out so a number
// survives being read aloud or retyped from a chat screenshot.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	tokenLength = 4
	maxAttempts = 5
)

// ErrExhausted means every allocation attempt collided with an existing
// order number. The whole checkout is safe to retry.
var ErrExhausted = errors.New("order number attempts exhausted")

// Generate builds PREFIX-YYYYMMDD-XXXX using t for the date component. The
// clock is read once per checkout; the date is not regenerated if the
// surrounding transaction commits after midnight.
func Generate(prefix string, t time.Time) (string, error) {
	token := make([]byte, tokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", err
		}
		token[i] = Alphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, t.Format("20060102"), token), nil
}

// ExistsFunc reports whether an order number is already persisted. The probe
// runs inside the caller's transaction session when one is active.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

type Allocator struct {
	Prefix string
	Exists ExistsFunc
	Now    func() time.Time // nil means time.Now
}

func (a *Allocator) clock() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Allocate returns a number that did not exist at probe time, regenerating
// on collision up to maxAttempts before failing with ErrExhausted.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	t := a.clock()
	for i := 0; i < maxAttempts; i++ {
		number, err := Generate(a.Prefix, t)
		if err != nil {
			return "", err
		}
		taken, err := a.Exists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrExhausted
}
