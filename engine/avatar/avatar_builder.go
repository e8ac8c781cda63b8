package avatar

// AvatarBuilderOption is a functional option applied to an avatar during construction via NewAvatar.
type AvatarBuilderOption func(*avatar)

// WithFramesInFlight sets the depth of the per-frame uniform ring. Deeper
// rings let the CPU run further ahead of the GPU at the cost of latency.
//
// Parameters:
//   - depth: the number of frame slots (minimum 1, default 3)
//
// Returns:
//   - AvatarBuilderOption: a function that applies the ring depth option to an avatar
func WithFramesInFlight(depth int) AvatarBuilderOption {
	return func(a *avatar) {
		if depth >= 1 {
			a.ringDepth = depth
		}
	}
}

// WithStrict makes DrawFrame fail when an item resolves to an unavailable
// pipeline variant instead of skipping the item.
//
// Parameters:
//   - strict: true to fail on missing variants
//
// Returns:
//   - AvatarBuilderOption: a function that applies the strict option to an avatar
func WithStrict(strict bool) AvatarBuilderOption {
	return func(a *avatar) {
		a.strict = strict
	}
}

// WithMorphWorkers sets the number of workers scanning meshes for active
// morph targets each frame.
//
// Parameters:
//   - workers: the worker count (minimum 1, default 2)
//
// Returns:
//   - AvatarBuilderOption: a function that applies the worker count option to an avatar
func WithMorphWorkers(workers int) AvatarBuilderOption {
	return func(a *avatar) {
		if workers >= 1 {
			a.morphWorkers = workers
		}
	}
}
