// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

// Prepend creates a new slice containing the result of prepending the given
// item onto the end of the given slice.  Observe that, unlike the built-in
// append() function, this will never modify the given slice.
func Prepend[T any](item T, slice []T) []T {
	n := len(slice)
	// Make space for new slice
	nslice := make([]T, n+1)
	// Copy existing values
	copy(nslice[1:], slice)
	// Set first value
	nslice[0] = item
	// Done
	return nslice
}

// Append creates a new slice containing the result of appending the given item
// onto the end of the given slice.  Observe that, unlike the built-in append()
// function, this will never modify the given slice.
//
//nolint:revive
func Append[T any](slice []T, item T) []T {
	n := len(slice)
	// Make space for new slice
	nslice := make([]T, n+1)
	// Copy existing values
	copy(nslice[:n], slice)
	// Set last value
	nslice[n] = item
	// Done
	return nslice
}
