package rpc

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yarkeeb/bookfeed/api"
	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/consolidate"
	"github.com/yarkeeb/bookfeed/pkg/feed"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

const minInterval = 10 * time.Millisecond

type Service struct {
	api.UnimplementedBookFeedServer

	hub          *feed.Hub
	symbol       string
	consolidator *consolidate.Consolidator
	interval     time.Duration
	log          *zap.Logger
}

func NewService(hub *feed.Hub, symbol string, c *consolidate.Consolidator, interval time.Duration, logger *zap.Logger) *Service {
	return &Service{
		hub:          hub,
		symbol:       types.NormalizeSymbol(symbol),
		consolidator: c,
		interval:     interval,
		log:          logger,
	}
}

func (s *Service) StreamBook(req *api.SubscribeRequest, stream api.BookFeed_StreamBookServer) error {
	if req.GetSymbol() != "" && !types.SameSymbol(req.GetSymbol(), s.symbol) {
		return status.Errorf(codes.NotFound, "symbol %q is not served", req.GetSymbol())
	}
	interval := s.interval
	if req.GetIntervalMs() > 0 {
		interval = time.Duration(req.GetIntervalMs()) * time.Millisecond
		if interval < minInterval {
			return status.Errorf(codes.InvalidArgument, "interval must be at least %v", minInterval)
		}
	}
	depth := s.consolidator.TopN()
	if req.GetDepth() > 0 && int(req.GetDepth()) < depth {
		depth = int(req.GetDepth())
	}

	log := s.log.With(zap.String("subscriber", uuid.NewString()))
	log.Info("client connected",
		zap.Int("depth", depth),
		zap.Duration("interval", interval))
	metrics.Subscribers.Inc()
	defer metrics.Subscribers.Dec()

	err := s.hub.Stream(stream.Context(), interval, s.consolidator, func(book *types.ConsolidatedBook) error {
		return stream.Send(ConvertToProtocol(s.symbol, book, depth))
	})
	if err != nil {
		log.Info("client disconnected", zap.Error(err))
		return err
	}
	log.Info("client disconnected")
	return nil
}
