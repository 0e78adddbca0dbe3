// Package convert turns extracted audio metadata (bed channels, objects with
// trajectories, global transport info) into a scene.
//
// Group numbering follows input order after a stable sort on orderIndex:
// beds take 1..N, objects take N+1 onward. Silent sources are suppressed
// but keep their number. One bed position is emitted as LFE, chosen by an
// LFEDetector.
//
// Object trajectories are merged with a k-way heap merge into one frame per
// distinct time bucket. Every source must have a keyframe at t=0.
package convert
