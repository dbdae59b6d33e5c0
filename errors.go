package p256k1

import "github.com/pkg/errors"

// Kind labels the class of an API-boundary error without allocating a new
// error type per failure; callers that care compare against these sentinels
// with errors.Is.
type Kind struct {
	label string
}

func (k Kind) Error() string { return k.label }

var (
	// ErrInvalidPrivateKey: scalar zero or >= n, or wrong byte length.
	ErrInvalidPrivateKey = Kind{"invalid private key"}
	// ErrInvalidPublicKey: wrong length, unknown prefix, x >= p, off-curve,
	// no square root on decompression, or equal to identity when forbidden.
	ErrInvalidPublicKey = Kind{"invalid public key"}
	// ErrInvalidSignature: wrong length, malformed DER, r or s out of range.
	ErrInvalidSignature = Kind{"invalid signature"}
	// ErrInvalidHash: wrong length (32 B required for Schnorr).
	ErrInvalidHash = Kind{"invalid message hash"}
	// ErrNoSolution: recoverPublicKey's candidate yields identity or no
	// valid point.
	ErrNoSolution = Kind{"no solution"}
	// ErrProbabilityExhausted: Schnorr sign self-verify failed, or the
	// RFC 6979 retry loop exceeded its bound.
	ErrProbabilityExhausted = Kind{"probability exhausted"}
)

// wrapErr tags err with kind using github.com/pkg/errors, keeping err's
// message text (not the err value itself) while making errors.Is(result,
// kind) true for callers that want to branch on error class.
func wrapErr(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(kind, err.Error())
}
