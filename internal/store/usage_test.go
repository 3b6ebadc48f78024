package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/config"
	st "github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("usage store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = st.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM usage_records;")
	})

	It("sums tokens per tenant since a point in time", func() {
		for _, tokens := range []int{100, 250} {
			_, err := s.Usage().Create(context.TODO(), &model.UsageRecord{
				TenantID:    "tenant-a",
				WorkItemID:  uuid.New(),
				Purpose:     "derivation",
				TotalTokens: tokens,
			})
			Expect(err).To(BeNil())
		}
		_, err := s.Usage().Create(context.TODO(), &model.UsageRecord{
			TenantID:    "tenant-b",
			TotalTokens: 999,
		})
		Expect(err).To(BeNil())

		total, err := s.Usage().SumTokensSince(context.TODO(), "tenant-a", time.Now().Add(-time.Hour))
		Expect(err).To(BeNil())
		Expect(total).To(Equal(int64(350)))
	})

	It("returns zero when no rows match", func() {
		total, err := s.Usage().SumTokensSince(context.TODO(), "tenant-x", time.Now().Add(-time.Hour))
		Expect(err).To(BeNil())
		Expect(total).To(Equal(int64(0)))
	})

	It("lists records per work item in creation order", func() {
		workItemID := uuid.New()
		for _, purpose := range []string{"derivation", "short_draft"} {
			_, err := s.Usage().Create(context.TODO(), &model.UsageRecord{
				TenantID:   "tenant-a",
				WorkItemID: workItemID,
				Purpose:    purpose,
			})
			Expect(err).To(BeNil())
		}

		records, err := s.Usage().ListByWorkItem(context.TODO(), workItemID)
		Expect(err).To(BeNil())
		Expect(records).To(HaveLen(2))
	})
})
