package membersearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch"
	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/types"
)

func initGlobalDB(t *testing.T) *bun.DB {
	t.Helper()
	model.Register()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = database.MemoryDBName
	cfg.ConnectionConfig.SlowQueryTime = 0

	db, err := database.InitDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	return db
}

func intPtr(v int) *int { return &v }

func TestSeedDemoAndSearch(t *testing.T) {
	ctx := context.Background()
	db := initGlobalDB(t)
	require.NoError(t, membersearch.SeedDemo(ctx, db))

	svc := membersearch.NewMemberService()
	cond := &model.MemberSearchCondition{AgeGoe: intPtr(20), AgeLoe: intPtr(30)}

	dtos, err := svc.Search(ctx, cond)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "member2", dtos[0].Username)
	assert.Equal(t, "member3", dtos[1].Username)

	byBuilder, err := svc.SearchByBuilder(ctx, cond)
	require.NoError(t, err)
	assert.Equal(t, dtos, byBuilder)

	members, err := svc.SearchMember(ctx, cond)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "teamA", members[0].Team.Name)

	page, err := svc.SearchPageSimple(ctx, &model.MemberSearchCondition{TeamName: "teamB"}, types.NewPageRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "member3", page.Items[0].Username)

	page, err = svc.SearchPageComplex(ctx, nil, types.NewPageRequest(2, 3))
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "member4", page.Items[0].Username)

	found, err := svc.FindByUsername(ctx, "member4")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 40, found[0].Age)
}

func TestGenericService(t *testing.T) {
	ctx := context.Background()
	initGlobalDB(t)

	teams := membersearch.NewService[model.Team]()
	require.NoError(t, teams.Save(ctx, model.NewTeam("teamA"), model.NewTeam("teamB")))

	all, err := teams.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	team, err := teams.Get(ctx, all[0].ID)
	require.NoError(t, err)
	team.Name = "renamed"
	require.NoError(t, teams.Update(ctx, team))

	list, err := teams.List(ctx, types.NewQueryFilter("name = ?", "renamed"))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, teams.SaveOrUpdate(ctx, []string{"name"}, nil, &model.Team{ID: all[1].ID, Name: "upserted"}))
	count, err := teams.SelectBuilder().Model((*model.Team)(nil)).Where("name = ?", "upserted").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, teams.Delete(ctx, all[0].ID))
	page, err := teams.Page(ctx, types.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSeedDemoRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := initGlobalDB(t)
	_, err := db.NewDropTable().Model((*model.Member)(nil)).Exec(ctx)
	require.NoError(t, err)

	require.Error(t, membersearch.SeedDemo(ctx, db))

	svc := membersearch.NewServiceWithDB[model.Team](db)
	teams, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)
}
