// Package audio implements the audio engine contract the renderer's host
// drives alongside the frame loop: start, update, pause, resume and dispose.
//
// An Engine owns the sounds created through it. Pause captures the instances
// playing at that moment and Resume restarts exactly those that are still
// paused, so instances stopped by the application in between stay stopped.
//
// Engines play through a Backend. The backend's native layer is initialized
// once per process and backend name; a failed initialization is reported by
// every NewEngine call for that backend.
//
//	eng, err := audio.NewEngine(&beepdev.Backend{})
//	if err != nil {
//	    return err
//	}
//	if err := eng.Start(); err != nil {
//	    log.Printf("audio disabled: %v", err)
//	}
package audio
