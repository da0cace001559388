// Package sequence caches the frames of one clip and drives the analysis
// state machine for incremental hosts.
//
// Hosts render frames out of order and from several threads. A Cache accepts
// raw frames in any order, pins the reference frame, and runs the
// accumulation chain exactly once when the whole mosh window has arrived.
// Requests never block waiting for missing frames: they return a placeholder
// until the chain is complete.
//
//	c, _ := sequence.New(sequence.Options{Strategy: motion.StrategySAD})
//	c.Configure(config.Params{MoshStart: 10, Duration: 30, BlockSize: 16, SearchRange: 16})
//
//	c.SubmitFrame(i, frame)
//	res, err := c.Request(ctx, i, 1.0, frame)
//	switch res.Status {
//	case sequence.Passthrough, sequence.Composited:
//	    // res.Frame is final
//	case sequence.Placeholder:
//	    // chain still waiting for inputs
//	}
//
// Changing any parameter clears the cache. Only frames in
// [MoshStart-1, MoshStart+Duration-1] are retained.
//
// # Persistence
//
// Snapshot and Restore save the parameter snapshot and frame size as a small
// binary record. Restored caches always start in NotStarted and need their
// frames resubmitted.
package sequence
