// Package server serves the MinuteAI landing page.
//
// Routes:
//
//	GET  /               the page, rendered by package web
//	POST /waitlist       form submission for clients without script
//	POST /api/waitlist   JSON registration: 201 new, 200 existing, 400 invalid, 415 wrong type
//	GET  /api/waitlist   {"count": n, "ahead": m}
//	GET  /ws/typewriter  websocket stream of typewriter frames
//	GET  /healthz        build and runtime status
//	GET  /static/        stylesheet and script
//
// Every registration goes through a waitlist.Controller backed by the
// in-memory roster, so the API and the form share the client's state rules.
//
// Each websocket stream runs its own typewriter.Cycler, started fresh on
// connect and stopped on disconnect. When the content file changes every
// open stream restarts on the new phrases.
//
// # Usage
//
//	srv, err := server.New(&server.Config{Host: "0.0.0.0", Port: 8080})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
package server
