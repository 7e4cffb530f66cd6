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
	"strings"

	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch/expr"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/types"
)

const (
	colMemberID       = "member.id"
	colMemberUsername = "member.username"
	colMemberAge      = "member.age"
	colMemberTeamID   = "member.team_id"
	colTeamID         = "team.id"
	colTeamName       = "team.name"

	defaultMemberOrder = "member.id ASC"
)

// MemberRepository stores members and runs the member/team searches.
// Every search returns rows ordered by member id and passes store errors
// through untouched.
type MemberRepository struct {
	Repository[model.Member]
	db bun.IDB
}

// NewMemberRepository returns a member repository over db, which may be a
// *bun.DB or a bun.Tx.
func NewMemberRepository(db bun.IDB) *MemberRepository {
	return &MemberRepository{Repository: NewRepository[model.Member](db), db: db}
}

// Save inserts members without an id and updates the others.
func (r *MemberRepository) Save(ctx context.Context, members ...*model.Member) error {
	var inserts []*model.Member
	for _, m := range members {
		if m.ID == 0 {
			inserts = append(inserts, m)
			continue
		}
		if err := r.Update(ctx, m); err != nil {
			return err
		}
	}
	return r.Create(ctx, inserts...)
}

// FindByID loads a member and its team.
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	member := new(model.Member)
	err := r.db.NewSelect().
		Model(member).
		Relation("Team").
		Where("? = ?", bun.Ident(colMemberID), id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	detachEmptyTeam(member)
	return member, nil
}

// FindAll loads every member with its team.
func (r *MemberRepository) FindAll(ctx context.Context) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.NewSelect().
		Model(&members).
		Relation("Team").
		Order(defaultMemberOrder).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	detachEmptyTeams(members)
	return members, nil
}

// FindAllRaw runs a static SQL statement. Teams are not loaded.
func (r *MemberRepository) FindAllRaw(ctx context.Context) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.NewRaw("SELECT id, username, age, team_id FROM members ORDER BY id ASC").
		Scan(ctx, &members)
	return members, err
}

// FindByUsername selects members by exact username with the query builder.
func (r *MemberRepository) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.NewSelect().
		Model(&members).
		Where("? = ?", bun.Ident(colMemberUsername), username).
		Order(defaultMemberOrder).
		Scan(ctx)
	return members, err
}

// FindByUsernameRaw selects members by exact username with static SQL and a
// bound parameter.
func (r *MemberRepository) FindByUsernameRaw(ctx context.Context, username string) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.NewRaw("SELECT id, username, age, team_id FROM members WHERE username = ? ORDER BY id ASC", username).
		Scan(ctx, &members)
	return members, err
}

// SearchByBuilder accumulates the present filters into a single predicate.
func (r *MemberRepository) SearchByBuilder(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeamDto, error) {
	builder := expr.NewBuilder()
	if cond != nil {
		if cond.HasUsername() {
			builder.And(expr.Eq(colMemberUsername, cond.Username))
		}
		if cond.HasTeamName() {
			builder.And(expr.Eq(colTeamName, cond.TeamName))
		}
		if cond.AgeGoe != nil {
			builder.And(expr.Goe(colMemberAge, *cond.AgeGoe))
		}
		if cond.AgeLoe != nil {
			builder.And(expr.Loe(colMemberAge, *cond.AgeLoe))
		}
	}

	dtos := make([]*model.MemberTeamDto, 0)
	q := expr.Where(r.memberTeamQuery(), builder.Predicate()).Order(defaultMemberOrder)
	if err := q.Scan(ctx, &dtos); err != nil {
		return nil, err
	}
	return dtos, nil
}

// Search applies one independent predicate per filter.
func (r *MemberRepository) Search(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeamDto, error) {
	dtos := make([]*model.MemberTeamDto, 0)
	q := r.filteredMemberTeamQuery(cond).Order(defaultMemberOrder)
	if err := q.Scan(ctx, &dtos); err != nil {
		return nil, err
	}
	return dtos, nil
}

// SearchMember returns member entities with their team loaded. The age
// bounds are chained into a single predicate.
func (r *MemberRepository) SearchMember(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.Member, error) {
	if cond == nil {
		cond = &model.MemberSearchCondition{}
	}
	members := make([]*model.Member, 0)
	q := r.db.NewSelect().
		Model(&members).
		Relation("Team")
	q = expr.Where(q,
		usernameEq(cond.Username),
		teamNameEq(cond.TeamName),
		ageBetween(cond.AgeGoe, cond.AgeLoe),
	)
	if err := q.Order(defaultMemberOrder).Scan(ctx); err != nil {
		return nil, err
	}
	detachEmptyTeams(members)
	return members, nil
}

// SearchPageSimple returns one page of the search and always runs the count
// query.
func (r *MemberRepository) SearchPageSimple(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	pagination := types.NewDefaultPagination[model.MemberTeamDto](page.GetPage(), page.GetPageSize())
	if err := r.scanPage(ctx, cond, page, &pagination.Items); err != nil {
		return nil, err
	}
	total, err := r.filteredMemberTeamQuery(cond).Count(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	return pagination, nil
}

// SearchPageComplex returns one page of the search and only counts when the
// total cannot be derived from the page itself.
func (r *MemberRepository) SearchPageComplex(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	pagination := types.NewDefaultPagination[model.MemberTeamDto](page.GetPage(), page.GetPageSize())
	if err := r.scanPage(ctx, cond, page, &pagination.Items); err != nil {
		return nil, err
	}
	total, err := types.PageTotal(page.GetOffset(), page.GetPageSize(), len(pagination.Items), func() (int, error) {
		return r.filteredMemberTeamQuery(cond).Count(ctx)
	})
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	return pagination, nil
}

func (r *MemberRepository) scanPage(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest, dest *[]*model.MemberTeamDto) error {
	if err := page.Validate(); err != nil {
		return err
	}
	orders := page.GetOrders()
	if len(orders) == 0 {
		orders = []string{defaultMemberOrder}
	}
	return r.filteredMemberTeamQuery(cond).
		Order(orders...).
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Scan(ctx, dest)
}

// memberTeamQuery selects the flat projection of members left joined with
// their team.
func (r *MemberRepository) memberTeamQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*model.Member)(nil)).
		ColumnExpr("? AS member_id", bun.Ident(colMemberID)).
		ColumnExpr("?", bun.Ident(colMemberUsername)).
		ColumnExpr("?", bun.Ident(colMemberAge)).
		ColumnExpr("? AS team_id", bun.Ident(colTeamID)).
		ColumnExpr("? AS team_name", bun.Ident(colTeamName)).
		Join("LEFT JOIN teams AS team ON ? = ?", bun.Ident(colTeamID), bun.Ident(colMemberTeamID))
}

func (r *MemberRepository) filteredMemberTeamQuery(cond *model.MemberSearchCondition) *bun.SelectQuery {
	if cond == nil {
		cond = &model.MemberSearchCondition{}
	}
	return expr.Where(r.memberTeamQuery(),
		usernameEq(cond.Username),
		teamNameEq(cond.TeamName),
		ageGoe(cond.AgeGoe),
		ageLoe(cond.AgeLoe),
	)
}

func usernameEq(username string) *expr.Predicate {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	return expr.Eq(colMemberUsername, username)
}

func teamNameEq(teamName string) *expr.Predicate {
	if strings.TrimSpace(teamName) == "" {
		return nil
	}
	return expr.Eq(colTeamName, teamName)
}

func ageGoe(age *int) *expr.Predicate {
	if age == nil {
		return nil
	}
	return expr.Goe(colMemberAge, *age)
}

func ageLoe(age *int) *expr.Predicate {
	if age == nil {
		return nil
	}
	return expr.Loe(colMemberAge, *age)
}

// ageBetween is nil only when both bounds are absent.
func ageBetween(goe, loe *int) *expr.Predicate {
	return ageGoe(goe).And(ageLoe(loe))
}

// detachEmptyTeam clears the zero team Bun allocates for a NULL join.
func detachEmptyTeam(m *model.Member) {
	if m.TeamID == nil {
		m.Team = nil
	}
}

func detachEmptyTeams(members []*model.Member) {
	for _, m := range members {
		detachEmptyTeam(m)
	}
}
