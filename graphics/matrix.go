// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import "golang.org/x/image/math/f32"

// Matrices are row-major and transform row vectors: p' = p * M.
// The translation lives in elements 12, 13 and 14.

// Identity returns the identity matrix.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation matrix.
func Translation(x, y, z float32) f32.Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns a scale matrix.
func Scaling(x, y, z float32) f32.Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Mul returns a * b: the transform a followed by b.
func Mul(a, b f32.Mat4) f32.Mat4 {
	var r f32.Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// TransformPoint transforms the point (v, 1) and returns the homogeneous result.
func TransformPoint(m f32.Mat4, v f32.Vec3) f32.Vec4 {
	var r f32.Vec4
	for col := range 4 {
		r[col] = v[0]*m[col] + v[1]*m[4+col] + v[2]*m[8+col] + m[12+col]
	}
	return r
}

// TranslationOf returns the translation part of m.
func TranslationOf(m f32.Mat4) f32.Vec3 {
	return f32.Vec3{m[12], m[13], m[14]}
}
