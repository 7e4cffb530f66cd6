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

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch/expr"
	"github.com/tomoncle/membersearch/model"
)

// ErrNonUniqueResult is returned by FindOne when more than one member matches.
var ErrNonUniqueResult = errors.New("query did not return a unique result")

// FindUsernames selects the username column of every member.
func (r *MemberRepository) FindUsernames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := r.db.NewSelect().
		Model((*model.Member)(nil)).
		Column("username").
		Order(defaultMemberOrder).
		Scan(ctx, &names)
	return names, err
}

// FindUsernamesAndAges selects username and age as two parallel slices.
func (r *MemberRepository) FindUsernamesAndAges(ctx context.Context) ([]string, []int, error) {
	names := make([]string, 0)
	ages := make([]int, 0)
	err := r.db.NewSelect().
		Model((*model.Member)(nil)).
		Column("username", "age").
		Order(defaultMemberOrder).
		Scan(ctx, &names, &ages)
	if err != nil {
		return nil, nil, err
	}
	return names, ages, nil
}

// FindMemberDtos projects every member onto MemberDto.
func (r *MemberRepository) FindMemberDtos(ctx context.Context) ([]*model.MemberDto, error) {
	dtos := make([]*model.MemberDto, 0)
	err := r.db.NewSelect().
		Model((*model.Member)(nil)).
		Column("username", "age").
		Order(defaultMemberOrder).
		Scan(ctx, &dtos)
	return dtos, err
}

// FindUserDtos projects every member onto UserDto, aliasing username to name.
func (r *MemberRepository) FindUserDtos(ctx context.Context) ([]*model.UserDto, error) {
	dtos := make([]*model.UserDto, 0)
	err := r.db.NewSelect().
		Model((*model.Member)(nil)).
		ColumnExpr("? AS name", bun.Ident(colMemberUsername)).
		ColumnExpr("?", bun.Ident(colMemberAge)).
		Order(defaultMemberOrder).
		Scan(ctx, &dtos)
	return dtos, err
}

// FindUserDtosWithMaxAge pairs every member name with the highest age of
// all members, computed by a scalar subquery.
func (r *MemberRepository) FindUserDtosWithMaxAge(ctx context.Context) ([]*model.UserDto, error) {
	maxAge := r.db.NewSelect().
		TableExpr("members AS member_sub").
		ColumnExpr("max(?)", bun.Ident("member_sub.age"))

	dtos := make([]*model.UserDto, 0)
	err := r.db.NewSelect().
		Model((*model.Member)(nil)).
		ColumnExpr("? AS name", bun.Ident(colMemberUsername)).
		ColumnExpr("(?) AS age", maxAge).
		Order(defaultMemberOrder).
		Scan(ctx, &dtos)
	return dtos, err
}

// FindOne returns the single member matching every predicate. It returns
// sql.ErrNoRows when nothing matches and ErrNonUniqueResult when more than
// one member does.
func (r *MemberRepository) FindOne(ctx context.Context, preds ...*expr.Predicate) (*model.Member, error) {
	members := make([]*model.Member, 0, 2)
	q := expr.Where(r.db.NewSelect().Model(&members).Relation("Team"), preds...)
	if err := q.Order(defaultMemberOrder).Limit(2).Scan(ctx); err != nil {
		return nil, err
	}
	switch len(members) {
	case 0:
		return nil, sql.ErrNoRows
	case 1:
		detachEmptyTeam(members[0])
		return members[0], nil
	default:
		return nil, ErrNonUniqueResult
	}
}

// CountMembers counts the members matching every predicate.
func (r *MemberRepository) CountMembers(ctx context.Context, preds ...*expr.Predicate) (int, error) {
	return expr.Where(r.db.NewSelect().Model((*model.Member)(nil)), preds...).Count(ctx)
}
