package tracker

import (
	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/event"
)

// Replay runs a recorded event sequence through the reducer, starting
// from base. It is pure: the reducer is the same one the live loop
// uses, with no snapshot client, no queue, and no id scoping (a
// recorded journal is already per-execution).
//
// Replaying the same sequence from the same base always yields the
// same projection; the replay command runs it twice and compares to
// prove that.
func Replay(base Projection, events []event.Event) Projection {
	p := base.Clone()
	for _, ev := range events {
		p = apply(p, ev)
	}
	return p
}
