package userRepo

import (
	"context"
	"testing"

	"shutterbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email maps to ErrDuplicateEmail", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.User{ID: "u1", Email: "a@b.c"})
		assert.ErrorIs(mt, err, ErrDuplicateEmail)
	})

	mt.Run("get by email returns nil when absent", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		require.NoError(mt, err)
		assert.Nil(mt, u)
	})

	mt.Run("get by id decodes role", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "name", Value: "Asha"},
			{Key: "email", Value: "asha@example.com"},
			{Key: "role", Value: "admin"},
		}))

		u, err := repo.GetByID(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleAdmin, u.Role)
	})

	mt.Run("update of missing user is ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repo.Update(context.Background(), &models.User{ID: "ghost"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
