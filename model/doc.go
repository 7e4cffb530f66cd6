// Package model declares the Member and Team entities, the member search
// condition and the flat member/team projection.
package model
