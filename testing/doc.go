// Package testing provides synthetic frame sequences and a simulated host for
// deterministic testing of the moshbrosh engine.
//
// # Synthetic Frames
//
// Texture produces a hashed gray texture whose blocks match only at their true
// offset, which makes SAD search results predictable. Smooth produces a cosine
// pattern suited to the gradient estimator. ShiftedSequence and PanSequence
// build whole clips with known motion:
//
//	frames := testing.ShiftedSequence(64, 48, 10, 2, 0) // pans right 2 px per frame
//
// # Simulated Host
//
// Hosts such as video editors render frames out of order and in parallel.
// SimulatedHost replays a sequence into any FrameSink in sequential, reversed,
// shuffled or concurrent order and records every submission:
//
//	host := testing.NewSimulatedHost(frames, 42)
//	err := host.DeliverConcurrently(engine, host.ShuffledOrder(), 4)
//
//	log := host.GetDeliveryLog()
//	if len(log) != len(frames) {
//	    t.Error("expected every frame to be delivered")
//	}
//
// # Thread Safety
//
// All methods on SimulatedHost are safe for concurrent use. The delivery log
// and the shuffle source are guarded by a sync.Mutex.
package testing
