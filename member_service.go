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

package membersearch

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/repository"
	"github.com/tomoncle/membersearch/types"
)

// MemberService exposes the member searches over a MemberRepository.
type MemberService struct {
	db   bun.IDB
	repo *repository.MemberRepository
	once sync.Once
}

// NewMemberService returns a MemberService backed by the global database
// connection, resolved on first use.
func NewMemberService() *MemberService {
	return &MemberService{}
}

// NewMemberServiceWithDB returns a MemberService bound to db.
func NewMemberServiceWithDB(db bun.IDB) *MemberService {
	return &MemberService{db: db}
}

func (s *MemberService) memberRepo() *repository.MemberRepository {
	s.once.Do(func() {
		db := s.db
		if db == nil {
			db = database.GetDB()
		}
		s.repo = repository.NewMemberRepository(db)
	})
	return s.repo
}

func (s *MemberService) Search(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeamDto, error) {
	return s.memberRepo().Search(ctx, cond)
}

func (s *MemberService) SearchByBuilder(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.MemberTeamDto, error) {
	return s.memberRepo().SearchByBuilder(ctx, cond)
}

func (s *MemberService) SearchMember(ctx context.Context, cond *model.MemberSearchCondition) ([]*model.Member, error) {
	return s.memberRepo().SearchMember(ctx, cond)
}

func (s *MemberService) SearchPageSimple(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	return s.memberRepo().SearchPageSimple(ctx, cond, page)
}

func (s *MemberService) SearchPageComplex(ctx context.Context, cond *model.MemberSearchCondition, page *types.PageRequest) (*types.Pagination[model.MemberTeamDto], error) {
	return s.memberRepo().SearchPageComplex(ctx, cond, page)
}

func (s *MemberService) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	return s.memberRepo().FindByUsername(ctx, username)
}

// SeedDemo stores teamA={member1(10), member2(20)} and
// teamB={member3(30), member4(40)} in one transaction.
func SeedDemo(ctx context.Context, db bun.IDB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		teamA, teamB := model.NewTeam("teamA"), model.NewTeam("teamB")
		if err := repository.NewRepository[model.Team](tx).Create(ctx, teamA, teamB); err != nil {
			return err
		}
		return repository.NewMemberRepository(tx).Save(ctx,
			model.NewMember("member1", 10, teamA),
			model.NewMember("member2", 20, teamA),
			model.NewMember("member3", 30, teamB),
			model.NewMember("member4", 40, teamB),
		)
	})
}
