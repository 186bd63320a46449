// Package typewriter cycles an ordered list of phrases into a single display
// string, one character at a time, forward then backward, forever.
//
// # Model
//
// A PhraseCycle holds the phrase list, the active index, the length (in
// runes) of the displayed prefix, and a direction:
//
//	Growing,   len < full  -> len++              (after TypingInterval)
//	Growing,   len == full -> switch to Shrinking (after Pause)
//	Shrinking, len > 0     -> len--              (after DeletingInterval)
//	Shrinking, len == 0    -> switch to Growing, index = (index+1) mod N
//
// Each Step performs exactly one of these transitions, so no phrase is ever
// skipped and no character is added or removed twice in a single tick. An
// empty phrase passes straight through: it reaches "full" immediately and is
// not held for the pause.
//
// # Runtime
//
// PhraseCycle is a pure state machine with no timers. Cycler drives one on a
// clockwork.Clock, notifying subscribers after every tick. The next tick is
// scheduled once the subscribers return:
//
//	c, err := typewriter.NewCycler(phrases, typewriter.DefaultTiming(), clockwork.NewRealClock())
//	if err != nil {
//	    return err
//	}
//	unsubscribe := c.Subscribe(func(f typewriter.Frame) { render(f.Text) })
//	defer unsubscribe()
//	c.Start()
//	defer c.Stop()
//
// Stop cancels the pending tick. A tick whose timer already fired but has not
// yet been applied when Stop runs is discarded, so the display never changes
// after Stop returns.
package typewriter
