/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package expr

// Builder accumulates predicates imperatively. The zero value is ready to use.
type Builder struct {
	pred *Predicate
}

// NewBuilder returns a builder seeded with the given predicates.
func NewBuilder(preds ...*Predicate) *Builder {
	return &Builder{pred: AllOf(preds...)}
}

// And adds p to the conjunction. A nil p is ignored.
func (b *Builder) And(p *Predicate) *Builder {
	b.pred = b.pred.And(p)
	return b
}

// Or joins p with everything accumulated so far.
func (b *Builder) Or(p *Predicate) *Builder {
	b.pred = b.pred.Or(p)
	return b
}

// HasValue reports whether any predicate was added.
func (b *Builder) HasValue() bool {
	return b.pred != nil
}

// Predicate returns the accumulated expression, or nil when empty.
func (b *Builder) Predicate() *Predicate {
	return b.pred
}
