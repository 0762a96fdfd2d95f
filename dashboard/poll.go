package dashboard

import (
	"time"

	"github.com/urrsk/go-urdash/internal/pool"
)

const (
	// pollInterval is the pause between status polls while waiting for an
	// asynchronous state transition to settle.
	pollInterval = 100 * time.Millisecond

	// retryRoundTimeout is how long retryCommand waits for the settled state
	// in each round before re-issuing the action command.
	retryRoundTimeout = 1 * time.Second

	// defaultSettleTimeout is the patience of fire-and-wait commands.
	defaultSettleTimeout = 30 * time.Second
)

// waitForReply polls cmd until its reply matches expected or timeout elapses.
//
// A reply that does not match is not a failure; the poll simply continues
// after pollInterval. Returning false means the status never settled within
// timeout, which is an expected outcome and logged as a warning only.
// Transport-level errors (e.g. a read timeout tearing the connection down)
// abort the poll and are returned.
func (c *Client) waitForReply(cmd, expected string, timeout time.Duration) (bool, error) {
	var lastReply string

	for elapsed := time.Duration(0); elapsed < timeout; elapsed += pollInterval {
		reply, err := c.SendAndReceive(cmd)
		if err != nil {
			return false, err
		}

		if matchReply(expected, reply) {
			return true, nil
		}

		lastReply = reply

		timer := pool.GetTimer(pollInterval)
		<-timer.C
		pool.PutTimer(timer)
	}

	c.logger.Warn("status did not settle within the timeout",
		"command", cmd,
		"expected", expected,
		"lastReply", lastReply,
		"timeout", timeout)

	return false, nil
}

// retryCommand drives an asynchronous state transition whose triggering
// command may need to be re-issued: each round it sends action (the immediate
// acknowledgement must match ackExpected, a mismatch is a hard failure), then
// waits retryRoundTimeout for status to match settledExpected.
//
// gate, when non-nil, runs under the connection mutex before every action
// send; a gate error is a hard failure. It runs at least one round and
// returns false if the status never settled within rounds rounds.
func (c *Client) retryCommand(action, ackExpected, status, settledExpected string, rounds uint, gate func() error) (bool, error) {
	return c.retryCommandEvery(action, ackExpected, status, settledExpected, rounds, retryRoundTimeout, gate)
}

func (c *Client) retryCommandEvery(action, ackExpected, status, settledExpected string, rounds uint, roundTimeout time.Duration, gate func() error) (bool, error) {
	for round := uint(0); ; round++ {
		c.mu.Lock()
		var err error
		if gate != nil {
			err = gate()
		}
		if err == nil {
			err = c.sendRequestLocked(action, ackExpected)
		}
		c.mu.Unlock()
		if err != nil {
			return false, err
		}

		settled, err := c.waitForReply(status, settledExpected, roundTimeout)
		if err != nil {
			return false, err
		}
		if settled {
			return true, nil
		}

		if round+1 >= rounds {
			return false, nil
		}
	}
}
