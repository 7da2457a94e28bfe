package cache_test

import (
	"context"
	"errors"
	"formflow/internal/infra/cache"
	"formflow/internal/logger"
	mockcache "formflow/test/unit/doubles/infra/cache"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("Redis", func() {
	var (
		store           *cache.Redis[schema]
		mockCacheClient *mockcache.MockCacheClient
		ctrl            *gomock.Controller
		ctx             context.Context
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockCacheClient = mockcache.NewMockCacheClient(ctrl)
		store = cache.NewRedisWithClient[schema](mockCacheClient, cache.RedisConfig{
			Prefix: "formflow:",
			TTL:    time.Minute,
		}, logger.NewNop())
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("Get", func() {
		ginkgo.It("decodes a stored entry under the prefixed key", func() {
			cmd := redis.NewStringCmd(ctx, "get", "formflow:form:a")
			cmd.SetVal(`{"ID":"a","Title":"Survey"}`)
			mockCacheClient.EXPECT().Get(gomock.Any(), "formflow:form:a").Return(cmd)

			got, found := store.Get(ctx, "form:a")
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(got).To(gomega.Equal(schema{ID: "a", Title: "Survey"}))
		})

		ginkgo.It("treats redis.Nil as a miss", func() {
			cmd := redis.NewStringCmd(ctx, "get", "formflow:form:a")
			cmd.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "formflow:form:a").Return(cmd)

			_, found := store.Get(ctx, "form:a")
			gomega.Expect(found).To(gomega.BeFalse())
		})

		ginkgo.It("treats a corrupt entry as a miss", func() {
			cmd := redis.NewStringCmd(ctx, "get", "formflow:form:a")
			cmd.SetVal(`not json`)
			mockCacheClient.EXPECT().Get(gomock.Any(), "formflow:form:a").Return(cmd)

			_, found := store.Get(ctx, "form:a")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("GetOrLoad", func() {
		ginkgo.It("loads on a miss and writes the value back with the ttl", func() {
			miss := redis.NewStringCmd(ctx, "get", "formflow:form:a")
			miss.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "formflow:form:a").Return(miss)
			mockCacheClient.EXPECT().
				Set(gomock.Any(), "formflow:form:a", []byte(`{"ID":"a","Title":"Loaded"}`), time.Minute).
				Return(redis.NewStatusCmd(ctx, "OK"))

			got, err := store.GetOrLoad(ctx, "form:a", func(context.Context) (schema, error) {
				return schema{ID: "a", Title: "Loaded"}, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.Title).To(gomega.Equal("Loaded"))
		})

		ginkgo.It("returns the loader error without writing", func() {
			miss := redis.NewStringCmd(ctx, "get", "formflow:form:a")
			miss.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "formflow:form:a").Return(miss)

			boom := errors.New("backend down")
			_, err := store.GetOrLoad(ctx, "form:a", func(context.Context) (schema, error) {
				return schema{}, boom
			})
			gomega.Expect(err).To(gomega.MatchError(boom))
		})
	})

	ginkgo.Context("Invalidate", func() {
		ginkgo.It("deletes the prefixed key", func() {
			mockCacheClient.EXPECT().Del(gomock.Any(), "formflow:form:a").Return(redis.NewIntCmd(ctx, int64(1)))

			store.Invalidate(ctx, "form:a")
		})
	})
})
