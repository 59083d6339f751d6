// Package desktop composes a simulated desktop out of the other packages.
//
// A Session owns one file system, one window manager and the scheduler
// behind every timer of its applications. Applications are launched by id
// and share the session's file system by reference, so a file created in
// the terminal shows up in the file manager at once.
//
// A Registry holds the sessions of a server and closes the idle ones.
//
// Example usage:
//
//	reg := desktop.NewRegistry(desktop.Config{}, 30*time.Minute)
//	s := reg.Create()
//	id, _ := s.Launch(desktop.AppTerminal)
//	term, _ := s.Terminal(id)
//	term.Execute("ls")
//	go reg.Run(ctx, time.Minute)
package desktop
