// Package compute provides the backends that evaluate cellular automaton
// generations.
//
// Two backends implement [Backend]:
//
//   - OpenGL: GL 4.3 compute shaders over shader storage buffers (gui builds)
//   - CPU: the same 8x8 tile dispatch spread across worker goroutines
//
// # Programs
//
// A program is compiled from source with [Backend.Compile]. The canonical
// [ThresholdSource] reads its survival range and birth count from the
// GameRules uniform block and is the only parameterized program. Life-like
// rulestrings such as "B36/S23" compile on every backend; the OpenGL backend
// also accepts arbitrary GLSL written against the same bindings:
//
//	binding 0  uniform SimParams {width, height, lucky_chance, seed, enable_lucky, paint}
//	binding 1  readonly buffer, current generation
//	binding 2  buffer, next generation
//	binding 3  uniform GameRules {survival_min, survival_max, birth_count, _pad}
//
// A batch of generations is one [Backend.Submit] call; pass k+1 reads the
// buffer pass k wrote.
package compute
