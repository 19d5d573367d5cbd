package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/metrics"
	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/pkg/utils"
)

const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// HaversineKm 半径 6371 km 球面上 a、b 的大圆距离
func HaversineKm(a, b domain.GeoPoint) float64 {
	lat1, lat2 := toRadians(a.Latitude), toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	sLat, sLon := math.Sin(dLat/2), math.Sin(dLon/2)
	h := sLat*sLat + math.Cos(lat1)*math.Cos(lat2)*sLon*sLon
	// 接近对跖点时舍入误差可能让 h 略超出 [0,1]
	h = math.Min(1, math.Max(0, h))
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ScanSink 接收每条扫描记录的副本（分析索引）
type ScanSink interface {
	IndexScan(ctx context.Context, scan *domain.Scan) error
}

type NearbyQuery struct {
	UserID    string
	PhotoURL  string
	Latitude  float64
	Longitude float64
	// CameraAngle 只随扫描记录保存，不参与过滤
	CameraAngle  float64
	RadiusMeters float64
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func validPoint(lat, lon float64) bool {
	return finite(lat) && finite(lon) && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func (q NearbyQuery) validate() error {
	if !validPoint(q.Latitude, q.Longitude) || !finite(q.CameraAngle) {
		return ErrInvalidCoordinates
	}
	if !finite(q.RadiusMeters) || q.RadiusMeters < 0 {
		return ErrInvalidRadius
	}
	return nil
}

type NearbyRestaurant struct {
	Restaurant     domain.Restaurant `json:"restaurant"`
	DistanceMeters float64           `json:"distanceMeters"`
}

// ProximityService 线性扫描，按设备位置匹配餐厅
type ProximityService struct {
	store domain.Store
	sink  ScanSink
	log   *zap.Logger
	now   func() time.Time
}

func NewProximityService(store domain.Store, sink ScanSink, l *zap.Logger) *ProximityService {
	return &ProximityService{store: store, sink: sink, log: l, now: time.Now}
}

// FindNearby 返回观察点 q.RadiusMeters 内的全部餐厅，由近到远；
// 匹配前先记录扫描，记录失败只打日志，不影响结果
func (s *ProximityService) FindNearby(ctx context.Context, q NearbyQuery) ([]NearbyRestaurant, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	s.recordScan(ctx, q)

	all, err := s.store.Restaurants().Find(ctx, domain.RestaurantFilter{})
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}

	origin := domain.GeoPoint{Latitude: q.Latitude, Longitude: q.Longitude}
	limitKm := q.RadiusMeters / 1000
	out := make([]NearbyRestaurant, 0)
	for i := range all {
		d := HaversineKm(origin, all[i].Location())
		if d <= limitKm {
			out = append(out, NearbyRestaurant{Restaurant: all[i], DistanceMeters: d * 1000})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].Restaurant.ID < out[j].Restaurant.ID
	})
	metrics.NearbyResults.Observe(float64(len(out)))
	return out, nil
}

func (s *ProximityService) recordScan(ctx context.Context, q NearbyQuery) {
	scan := &domain.Scan{
		ID:          utils.NewID(),
		UserID:      q.UserID,
		PhotoURL:    q.PhotoURL,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		CameraAngle: q.CameraAngle,
		CreatedAt:   s.now(),
	}
	if err := s.store.Scans().Create(ctx, scan); err != nil {
		metrics.ScansRecorded.WithLabelValues("failed").Inc()
		s.log.Warn("scan record failed", zap.String("user_id", q.UserID), zap.Error(err))
		return
	}
	metrics.ScansRecorded.WithLabelValues("recorded").Inc()
	if s.sink == nil {
		return
	}
	if err := s.sink.IndexScan(ctx, scan); err != nil {
		s.log.Warn("scan index failed", zap.String("scan_id", scan.ID), zap.Error(err))
	}
}

func (s *ProximityService) GetScan(ctx context.Context, id string) (*domain.Scan, error) {
	scan, err := s.store.Scans().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find scan: %w", err)
	}
	if scan == nil {
		return nil, ErrScanNotFound
	}
	return scan, nil
}

func (s *ProximityService) ListScans(ctx context.Context, f domain.ScanFilter) ([]domain.Scan, int64, error) {
	scans, total, err := s.store.Scans().List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list scans: %w", err)
	}
	return scans, total, nil
}
