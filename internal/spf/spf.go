// ABOUTME: Sender Policy Framework checks for inbound mail, RFC 7208
// ABOUTME: Wraps the resolver behind the worker pool so DNS waits stay off delivery goroutines

package spf

import (
	"fmt"
	"net"

	gospf "blitiri.com.ar/go/spf"

	"github.com/skiff-mail/skiff/internal/workpool"
)

// Status is the outcome of a policy evaluation.
type Status string

var (
	StatusNone      Status = Status(gospf.None)
	StatusNeutral   Status = Status(gospf.Neutral)
	StatusPass      Status = Status(gospf.Pass)
	StatusFail      Status = Status(gospf.Fail)
	StatusSoftFail  Status = Status(gospf.SoftFail)
	StatusTempError Status = Status(gospf.TempError)
	StatusPermError Status = Status(gospf.PermError)
)

// Verdict pairs the SPF status with the resolver's explanation. TempError
// and PermError are verdicts, not call failures: callers decide policy.
type Verdict struct {
	Status Status
	Detail string
}

// Checker evaluates sender policies on a bounded pool.
type Checker struct {
	pool *workpool.Pool
}

func NewChecker(pool *workpool.Pool) *Checker {
	return &Checker{pool: pool}
}

// Check evaluates the policy for a connecting host. fromIP is the remote
// address, sender the MAIL FROM address, helo the EHLO/HELO domain used
// when the sender is empty. The returned future resolves to a Verdict;
// an invalid fromIP is the only call failure.
func (c *Checker) Check(fromIP, sender, helo string) *workpool.Future[Verdict] {
	return workpool.Submit(c.pool, func() (Verdict, error) {
		ip := net.ParseIP(fromIP)
		if ip == nil {
			return Verdict{}, fmt.Errorf("invalid sender ip %q", fromIP)
		}
		result, err := gospf.CheckHostWithSender(ip, helo, sender)
		v := Verdict{Status: Status(result)}
		if err != nil {
			v.Detail = err.Error()
		}
		return v, nil
	})
}
