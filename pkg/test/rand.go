package test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/raphaelreyna/liquette/pkg/frontend"
)

type RandReader struct{}

func (r *RandReader) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

func RandInt(min, max int) int {
	delta := big.NewInt(int64(max - min))
	randBigInt, _ := rand.Int(&RandReader{}, delta)
	return min + int(randBigInt.Int64())
}

// RandomJob returns a job with a random id. An empty tmpl is replaced with a
// small inline template.
func RandomJob(tmpl, target string) *frontend.Job {
	idx := RandInt(0, 9999)
	if tmpl == "" {
		tmpl = fmt.Sprintf("{{ x }}-%d", idx)
	}

	j := frontend.Job{
		ID:        strconv.Itoa(idx),
		Template:  tmpl,
		TargetURI: target,
	}

	return &j
}

func RandomRequest(ctx context.Context, wg *sync.WaitGroup, tmpl, target string) *frontend.Request {
	req := frontend.NewRequest(ctx)

	req.Job = RandomJob(tmpl, target)

	if wg != nil {
		req.Done = func(jd *frontend.JobDone) {
			wg.Done()
		}
	} else {
		req.Done = func(jd *frontend.JobDone) {}
	}

	return req
}
