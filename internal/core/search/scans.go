package search

import (
	"context"
	"fmt"
	"time"

	"github.com/olivere/elastic/v7"

	"go-restaurant-radar/internal/domain"
)

const scanMapping = `{
  "mappings": {
    "properties": {
      "user_id":      {"type": "keyword"},
      "photo_url":    {"type": "keyword", "index": false},
      "location":     {"type": "geo_point"},
      "camera_angle": {"type": "float"},
      "created_at":   {"type": "date"}
    }
  }
}`

type scanDoc struct {
	UserID      string           `json:"user_id"`
	PhotoURL    string           `json:"photo_url"`
	Location    elastic.GeoPoint `json:"location"`
	CameraAngle float64          `json:"camera_angle"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ScanIndex 把扫描记录同步到 ES，供地理分析使用；主存储仍是数据库
type ScanIndex struct {
	Client *elastic.Client
	Index  string
}

func NewScanIndex(url, index string) (*ScanIndex, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("elastic client: %w", err)
	}
	return &ScanIndex{Client: client, Index: index}, nil
}

func (s *ScanIndex) EnsureIndex(ctx context.Context) error {
	exists, err := s.Client.IndexExists(s.Index).Do(ctx)
	if err != nil {
		return fmt.Errorf("index exists %s: %w", s.Index, err)
	}
	if exists {
		return nil
	}
	if _, err := s.Client.CreateIndex(s.Index).BodyString(scanMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", s.Index, err)
	}
	return nil
}

func (s *ScanIndex) IndexScan(ctx context.Context, scan *domain.Scan) error {
	doc := scanDoc{
		UserID:      scan.UserID,
		PhotoURL:    scan.PhotoURL,
		Location:    elastic.GeoPoint{Lat: scan.Latitude, Lon: scan.Longitude},
		CameraAngle: scan.CameraAngle,
		CreatedAt:   scan.CreatedAt,
	}
	_, err := s.Client.Index().Index(s.Index).Id(scan.ID).BodyJson(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("index scan %s: %w", scan.ID, err)
	}
	return nil
}
