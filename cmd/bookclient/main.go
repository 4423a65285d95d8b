package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/yarkeeb/bookfeed/api"
	"github.com/yarkeeb/bookfeed/internal/logging"
	"github.com/yarkeeb/bookfeed/pkg/analytics"
)

var (
	priceBandsBps = []int{50, 100, 200, 500, 1000}
	notionalBands = []float64{1e6, 5e6, 1e7, 2.5e7, 5e7}
)

func main() {
	addr := flag.String("addr", "localhost:50051", "aggregator gRPC address")
	symbol := flag.String("symbol", "BTCUSDT", "symbol to subscribe to")
	mode := flag.String("mode", "bbo", "output: bbo, price-bands or volume-bands")
	depth := flag.Uint32("depth", 0, "levels per side, 0 for the server default")
	interval := flag.Uint32("interval-ms", 0, "emission interval, 0 for the server default")
	flag.Parse()

	logger, err := logging.New("info", false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	printer, err := printerFor(*mode)
	if err != nil {
		logger.Fatal("bad mode", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("dial", zap.Error(err))
	}
	defer conn.Close()

	stream, err := api.NewBookFeedClient(conn).StreamBook(ctx, &api.SubscribeRequest{
		Symbol:     *symbol,
		Depth:      *depth,
		IntervalMs: *interval,
	})
	if err != nil {
		logger.Fatal("subscribe", zap.Error(err))
	}
	for {
		book, err := stream.Recv()
		if err == io.EOF || status.Code(err) == codes.Canceled {
			return
		}
		if err != nil {
			logger.Fatal("stream ended", zap.Error(err))
		}
		printer(os.Stdout, book)
	}
}

type printer func(w io.Writer, book *api.ConsolidatedBook)

func printerFor(mode string) (printer, error) {
	switch mode {
	case "bbo":
		return printBBO, nil
	case "price-bands":
		return printPriceBands, nil
	case "volume-bands":
		return printVolumeBands, nil
	default:
		return nil, errors.Errorf("unknown mode %q", mode)
	}
}

func printBBO(w io.Writer, book *api.ConsolidatedBook) {
	bid, ask, ok := analytics.BBO(book)
	if !ok {
		fmt.Fprintf(w, "ts=%d BBO=NA\n", book.TsMs)
		return
	}
	fmt.Fprintf(w, "ts=%d bid=%g@%g ask=%g@%g\n", book.TsMs, bid.Price, bid.Size, ask.Price, ask.Size)
}

func printPriceBands(w io.Writer, book *api.ConsolidatedBook) {
	bands, ok := analytics.PriceBands(book, priceBandsBps)
	if !ok {
		fmt.Fprintf(w, "ts=%d BBO=NA\n", book.TsMs)
		return
	}
	for _, b := range bands {
		fmt.Fprintf(w, "ts=%d +%dbps qty=%g vwap=%g | -%dbps qty=%g vwap=%g\n",
			book.TsMs, b.Bps, b.UpQty, b.UpVWAP, b.Bps, b.DownQty, b.DownVWAP)
	}
}

func printVolumeBands(w io.Writer, book *api.ConsolidatedBook) {
	for _, b := range analytics.VolumeBands(book, notionalBands) {
		fmt.Fprintf(w, "ts=%d notional=%g qty=%g vwap=%g filled_notional=%g\n",
			book.TsMs, b.Notional, b.Qty, b.VWAP, b.Qty*b.VWAP)
	}
}
