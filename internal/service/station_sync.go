package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
)

// StationPusher 推送站点数据的出站接口，由漫游门面实现
type StationPusher interface {
	PushStationData(ctx context.Context, req emobility.PushStationDataRequest) *emobility.PushResult
}

// StationSyncService 站点静态数据的推送
type StationSyncService struct {
	pusher       StationPusher
	source       StationSource
	operatorName *string
	log          *logger.Logger
}

// NewStationSyncService 创建站点同步服务
func NewStationSyncService(pusher StationPusher, source StationSource, operatorName string, log *logger.Logger) *StationSyncService {
	if log == nil {
		log = logger.Nop()
	}
	s := &StationSyncService{pusher: pusher, source: source, log: log}
	if operatorName != "" {
		s.operatorName = &operatorName
	}
	return s
}

// FullLoad 用本地全部站点替换对端数据
func (s *StationSyncService) FullLoad(ctx context.Context, operatorID emobility.OperatorID) (*emobility.PushResult, error) {
	stations, err := s.source.Stations(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("read stations: %w", err)
	}
	return s.push(ctx, operatorID, emobility.ActionFullLoad, stations)
}

// Push 增量推送站点数据
func (s *StationSyncService) Push(ctx context.Context, operatorID emobility.OperatorID, action emobility.SyncAction, stations []emobility.StationRecord) (*emobility.PushResult, error) {
	return s.push(ctx, operatorID, action, stations)
}

func (s *StationSyncService) push(ctx context.Context, operatorID emobility.OperatorID, action emobility.SyncAction, stations []emobility.StationRecord) (*emobility.PushResult, error) {
	res := s.pusher.PushStationData(ctx, emobility.PushStationDataRequest{
		OperatorID:   operatorID,
		OperatorName: s.operatorName,
		Action:       action,
		Records:      stations,
	})
	if res == nil {
		return nil, fmt.Errorf("%s station push returned no result", action)
	}
	if res.Status != emobility.PushSuccess {
		return res, fmt.Errorf("%s station push failed: %s (%s)", action, res.Status, res.Description)
	}
	s.log.InfoEvent().
		Str("operator_id", string(operatorID)).
		Str("action", action.String()).
		Int("records", len(stations)).
		Msg("station data pushed")
	return res, nil
}

// StationCatalog 内存中的站点目录，实现 StationSource
type StationCatalog struct {
	mu       sync.RWMutex
	stations map[emobility.OperatorID]map[emobility.EVSEID]emobility.StationRecord
}

// NewStationCatalog 创建空目录
func NewStationCatalog() *StationCatalog {
	return &StationCatalog{stations: make(map[emobility.OperatorID]map[emobility.EVSEID]emobility.StationRecord)}
}

// LoadStationCatalog 从 JSON 数组文件加载站点目录
func LoadStationCatalog(path string) (*StationCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station catalog: %w", err)
	}
	var records []emobility.StationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode station catalog %s: %w", path, err)
	}
	c := NewStationCatalog()
	for _, r := range records {
		c.Put(r)
	}
	return c, nil
}

// Put 新增或替换站点
func (c *StationCatalog) Put(r emobility.StationRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byID, ok := c.stations[r.OperatorID]
	if !ok {
		byID = make(map[emobility.EVSEID]emobility.StationRecord)
		c.stations[r.OperatorID] = byID
	}
	byID[r.EVSEID] = r
}

// Operators 目录中的运营商
func (c *StationCatalog) Operators() []emobility.OperatorID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ops := make([]emobility.OperatorID, 0, len(c.stations))
	for op := range c.stations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Stations 实现 StationSource，按 EVSE 编号排序
func (c *StationCatalog) Stations(_ context.Context, operatorID emobility.OperatorID) ([]emobility.StationRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byID := c.stations[operatorID]
	out := make([]emobility.StationRecord, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EVSEID < out[j].EVSEID })
	return out, nil
}
