// Package timer provides cancellable scheduled callbacks for simulated
// activity such as staggered script output or metric refreshes.
//
// Components receive a Scheduler and wrap it in a Group so that closing the
// component cancels everything it scheduled. Real runs on clockwork's real
// clock; Manual runs on a clockwork fake clock advanced by the caller.
//
// Example usage:
//
//	clock := timer.NewManual()
//	g := timer.NewGroup(clock)
//	g.AfterFunc(time.Second, func() { fmt.Println("done") })
//	clock.Advance(time.Second) // prints "done"
//	g.Close()
package timer
