package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/repository"
	"github.com/tomoncle/membersearch/types"
)

func TestRepositoryCrud(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRepository[model.Team](db)

	teams := []*model.Team{model.NewTeam("teamA"), model.NewTeam("teamB"), model.NewTeam("teamC")}
	require.NoError(t, repo.Create(ctx, teams...))
	for _, team := range teams {
		assert.NotZero(t, team.ID)
	}

	one, err := repo.GetOne(ctx, teams[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "teamB", one.Name)

	one.Name = "teamB2"
	require.NoError(t, repo.Update(ctx, one))

	list, err := repo.List(ctx, types.NewQueryFilter("name LIKE ?", "teamB%"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "teamB2", list[0].Name)

	require.NoError(t, repo.Delete(ctx, teams[2].ID))
	_, err = repo.GetOne(ctx, teams[2].ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryPage(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRepository[model.Team](db)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Create(ctx, model.NewTeam(name)))
	}

	page, err := repo.Page(ctx, types.NewPageRequest(2, 2, "name DESC"))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].Name)
	assert.Equal(t, "b", page.Items[1].Name)

	page, err = repo.Page(ctx, types.NewPageRequestWithFilter(1, 10, types.NewQueryFilter("name = ?", "zzz")))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRepository[model.Team](db)

	require.NoError(t, repo.Upsert(ctx, []string{"name"}, nil, &model.Team{ID: 7, Name: "old"}))
	require.NoError(t, repo.Upsert(ctx, []string{"name"}, []string{"id"}, &model.Team{ID: 7, Name: "new"}))

	team, err := repo.GetOne(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "new", team.Name)

	assert.Error(t, repo.Upsert(ctx, nil, nil, team))
}

func TestRepositoryWithTx(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewRepository[model.Team](db)

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		team := model.NewTeam("tx")
		if err := repo.CreateWithTx(ctx, &tx, team); err != nil {
			return err
		}
		team.Name = "tx2"
		if err := repo.UpdateWithTx(ctx, &tx, team); err != nil {
			return err
		}
		return repo.UpsertWithTx(ctx, &tx, []string{"name"}, nil, &model.Team{ID: team.ID, Name: "tx3"})
	})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "tx3", all[0].Name)

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return repo.DeleteWithTx(ctx, &tx, all[0].ID)
	})
	require.NoError(t, err)
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
