package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticedb/rowmap/internal/fingerprint"
)

func TestU64IsDeterministic(t *testing.T) {
	assert.Equal(t, fingerprint.U64("id"), fingerprint.U64("id"))
	assert.NotEqual(t, fingerprint.U64("id"), fingerprint.U64("name"))
}

func TestShapeIsOrderSensitive(t *testing.T) {
	a := fingerprint.NewShape().Add("id").Add("name").Sum()
	b := fingerprint.NewShape().Add("name").Add("id").Sum()
	assert.NotEqual(t, a, b)
}

func TestShapeRepeatsToSameSum(t *testing.T) {
	build := func() uint64 {
		return fingerprint.NewShape().Add("id").AddBool(true).AddInt(3).Sum()
	}
	assert.Equal(t, build(), build())
}

func TestAddBoolDistinguishesTrueFromFalse(t *testing.T) {
	a := fingerprint.NewShape().Add("x").AddBool(true).Sum()
	b := fingerprint.NewShape().Add("x").AddBool(false).Sum()
	assert.NotEqual(t, a, b)
}

func TestMix64OrderMatters(t *testing.T) {
	a := fingerprint.Mix64(1, 2)
	b := fingerprint.Mix64(2, 1)
	assert.NotEqual(t, a, b)
}
