package testutil

import (
	"encoding/hex"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/babylonchain/beacon-committee/testutil/mocks"
)

func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	newHeaderBytes := make([]byte, length)
	r.Read(newHeaderBytes)
	return newHeaderBytes
}

func GenRandomHexStr(r *rand.Rand, length uint64) string {
	randBytes := GenRandomByteArray(r, length)
	return hex.EncodeToString(randBytes)
}

func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	// Seed based on the current time
	r := rand.New(rand.NewSource(time.Now().Unix()))
	var idx uint
	for idx = 0; idx < num; idx++ {
		f.Add(r.Int63())
	}
}

// PrepareMockedBlockCounter returns a block counter mock that reports the
// given heights one after another and then keeps reporting the last one.
func PrepareMockedBlockCounter(t *testing.T, heights ...uint64) *mocks.MockBlockCounter {
	ctl := gomock.NewController(t)
	mockBlockCounter := mocks.NewMockBlockCounter(ctl)

	var calls []*gomock.Call
	for i, h := range heights {
		call := mockBlockCounter.EXPECT().CurrentBlock().Return(h, nil)
		if i == len(heights)-1 {
			call = call.AnyTimes()
		} else {
			call = call.Times(1)
		}
		calls = append(calls, call)
	}
	if len(calls) > 1 {
		gomock.InOrder(calls...)
	}

	return mockBlockCounter
}
