package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	bidding "reverse-auction/internal/biddingService"
	"reverse-auction/internal/broadcast"
	model "reverse-auction/internal/models"
	"reverse-auction/internal/repository"
	"reverse-auction/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name        string
	NumAuctions int
	ItemsPerAuc int
	ReadRatio   int
	MaxRate     int
	Burst       bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	latencies atomic.Value // stores []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	v := om.latencies.Load()
	var l []time.Duration
	if v != nil {
		l = v.([]time.Duration)
	}
	l = append(l, d)
	om.latencies.Store(l)
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	v := om.latencies.Load()
	if v == nil {
		return
	}
	latencies := v.([]time.Duration)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// setupLoad creates the bidding service on a throwaway SQLite database
// seeded with the requested number of open auctions.
func setupLoad(b *testing.B, numAuctions, itemsPerAuction int) (*bidding.BiddingService, []model.Auction) {
	b.Helper()

	path := filepath.Join(b.TempDir(), "load.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		b.Fatalf("migrate db: %v", err)
	}

	repo := repository.NewGormRepo(db)
	svc := bidding.NewBiddingService(repo, broadcast.NopPublisher{})

	auctions := make([]model.Auction, 0, numAuctions)
	for i := 0; i < numAuctions; i++ {
		auction := model.Auction{
			ID:        utils.GenerateID(),
			Title:     fmt.Sprintf("Load test auction %d", i),
			CreatedAt: time.Now().UTC(),
			EndsAt:    time.Now().UTC().Add(24 * time.Hour),
			BuyerID:   "buyer1",
		}
		for j := 0; j < itemsPerAuction; j++ {
			auction.Items = append(auction.Items, model.AuctionItem{
				ID:        utils.GenerateID(),
				AuctionID: auction.ID,
				Name:      fmt.Sprintf("item_%d_%d", i, j),
				Quantity:  float64(1 + j),
				UOM:       "ea",
			})
		}
		if err := repo.CreateAuction(context.Background(), &auction); err != nil {
			b.Fatalf("seed auction: %v", err)
		}
		auctions = append(auctions, auction)
	}
	return svc, auctions
}

// Benchmark_Load_ReverseAuction runs multiple scenarios
func Benchmark_Load_ReverseAuction(b *testing.B) {
	scenarios := []LoadScenario{
		{"Low-Contention-WriteHeavy", 50, 5, 0, 50, false},
		{"High-Contention-WriteHeavy", 5, 5, 0, 20, false},
		{"Mixed-Workload", 20, 5, 7, 30, false},
		{"ReadHeavy", 20, 5, 9, 20, false},
		{"Edge-Case-SingleAuction", 1, 5, 5, 10, false},
		{"Peak-Burst", 20, 5, 0, 20, true},
	}

	for _, s := range scenarios {
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	b.ReportAllocs()

	svc, auctions := setupLoad(b, s.NumAuctions, s.ItemsPerAuc)

	var totalOps, successfulBids, failedBids, totalReads int64
	auctionSuccess := make([]int64, s.NumAuctions)
	metrics := &OperationMetrics{}

	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(time.Now().Nanosecond())))

		for pb.Next() {
			auctionIndex := rnd.Intn(s.NumAuctions)
			auction := auctions[auctionIndex]
			opType := rnd.Intn(10)

			opStart := time.Now()
			if opType < s.ReadRatio {
				supplierID := fmt.Sprintf("supplier_%d", rnd.Intn(1000))
				if _, err := svc.SubmitBid(context.Background(), supplierID, auction.ID, bidding.RankingQuery{}); err != nil {
					b.Logf("ignored read error: %v", err)
				}
				atomic.AddInt64(&totalReads, 1)
			} else {
				rates := make([]bidding.ItemRate, 0, len(auction.Items))
				for _, item := range auction.Items {
					rates = append(rates, bidding.ItemRate{
						ItemID: item.ID,
						Rate:   float64(1 + rnd.Intn(s.MaxRate)),
					})
				}
				supplierID := fmt.Sprintf("supplier_%d", rnd.Intn(1000))
				if _, err := svc.SubmitBid(context.Background(), supplierID, auction.ID, bidding.ItemRateBid{Rates: rates}); err != nil {
					b.Logf("ignored bid error: %v", err)
					atomic.AddInt64(&failedBids, 1)
				} else {
					atomic.AddInt64(&successfulBids, 1)
					atomic.AddInt64(&auctionSuccess[auctionIndex], 1)
				}
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	min, max, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Auctions: %d | Total Ops: %d | Success Bids: %d | Failed Bids: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumAuctions, totalOps, successfulBids, failedBids, totalReads, elapsed,
		throughput,
		float64(min.Microseconds()), float64(avg.Microseconds()), float64(max.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)

	for i, v := range auctionSuccess {
		if v > 0 {
			b.Logf("Auction %d successful bids: %d", i, v)
		}
	}
}
