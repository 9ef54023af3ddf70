// Package app owns the application state and orchestrates recognition
// requests for a front end.
//
// # Threading
//
// Controller methods are called from the UI thread. Recognition runs on a
// background goroutine with a cancellable context; its result is handed
// back to the UI thread through the Dispatcher, and only then are the
// display buffer and progress updated and the View notified. At most one
// request is in flight: a second Recognize call is rejected with ErrBusy.
//
// # State
//
// The Controller is the single owner of the display buffer, progress,
// theme and font size. The View mirrors that state and reports user edits
// back through SetText.
//
// # Messages
//
// Notifications carry short, generic messages. Failure details are logged,
// never shown.
package app
