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

import (
	"github.com/uptrace/bun"
)

// Predicate is an immutable boolean SQL expression with its bind arguments.
// A nil *Predicate stands for "no constraint" and is accepted everywhere a
// predicate is.
type Predicate struct {
	query string
	args  []interface{}
}

// Raw wraps a query fragment using bun placeholders.
func Raw(query string, args ...interface{}) *Predicate {
	return &Predicate{query: query, args: args}
}

// Eq renders "column = value".
func Eq(column string, value interface{}) *Predicate {
	return compare(column, "=", value)
}

// Goe renders "column >= value".
func Goe(column string, value interface{}) *Predicate {
	return compare(column, ">=", value)
}

// Loe renders "column <= value".
func Loe(column string, value interface{}) *Predicate {
	return compare(column, "<=", value)
}

func compare(column, op string, value interface{}) *Predicate {
	return &Predicate{
		query: "? " + op + " ?",
		args:  []interface{}{bun.Ident(column), value},
	}
}

// And returns the conjunction of p and other. Either side may be nil.
func (p *Predicate) And(other *Predicate) *Predicate {
	return combine(p, "AND", other)
}

// Or returns the disjunction of p and other. Either side may be nil.
func (p *Predicate) Or(other *Predicate) *Predicate {
	return combine(p, "OR", other)
}

// AllOf folds preds with AND, skipping nil entries. It returns nil when no
// predicate is present.
func AllOf(preds ...*Predicate) *Predicate {
	var out *Predicate
	for _, p := range preds {
		out = out.And(p)
	}
	return out
}

func combine(left *Predicate, op string, right *Predicate) *Predicate {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	args := make([]interface{}, 0, len(left.args)+len(right.args))
	args = append(args, left.args...)
	args = append(args, right.args...)
	return &Predicate{
		query: "(" + left.query + ") " + op + " (" + right.query + ")",
		args:  args,
	}
}

// Query returns the fragment and its arguments.
func (p *Predicate) Query() (string, []interface{}) {
	if p == nil {
		return "", nil
	}
	return p.query, p.args
}

// Where appends every non-nil predicate to q as an AND-ed WHERE condition.
func Where(q *bun.SelectQuery, preds ...*Predicate) *bun.SelectQuery {
	for _, p := range preds {
		if p == nil {
			continue
		}
		q = q.Where(p.query, p.args...)
	}
	return q
}
