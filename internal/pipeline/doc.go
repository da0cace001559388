// Package pipeline runs the offline moshing workflow over a whole clip.
//
// A run is four passes executed in order: read every frame of the input,
// fit the mosh window to the clip length, run the accumulation chain and
// blend, then write the result. Each pass is recorded as a StepResult; a
// failed pass marks every later pass as skipped.
//
//	cfg := pipeline.DefaultPipelineConfig()
//	cfg.InputPath = "frames/"
//	cfg.OutputPath = "moshed.webp"
//	results, err := pipeline.NewRunner(cfg).Run(ctx)
package pipeline
