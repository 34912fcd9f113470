package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
	"github.com/rem1niscence/smt/metrics"
	"github.com/rem1niscence/smt/smt"
	"github.com/rem1niscence/smt/store"
)

// rootFilePath names the small JSON file the CLI uses to remember the last committed root between
// invocations, since the Store contract itself has no notion of "current root" (§4.B).
const rootFilePath = "root.json"

var rootCmd = &cobra.Command{
	Use:     "smtcli",
	Short:   "smtcli operates a disk-backed sparse Merkle tree",
	Version: "0.1.0",
	// config and logger are loaded after flag parsing, so --data-dir applies to them
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err lib.ErrorI
		config, err = lib.NewConfigFromFile(dataDir)
		if err != nil {
			log.Fatal(err.Error())
		}
		logger = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()})
	},
}

var (
	dataDir string
	config  lib.Config
	logger  lib.LoggerI
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	rootCmd.AddCommand(updateCmd, getCmd, proveCmd, verifyCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openStore() *store.BadgerStore {
	s, err := store.NewBadgerStore(config.StoreConfig, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	return s
}

type rootFile struct {
	Root lib.HexBytes `json:"root"`
}

func loadRoot() crypto.H256 {
	path := filepath.Join(dataDir, rootFilePath)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return crypto.ZeroH256
	}
	var rf rootFile
	if err := lib.NewJSONFromFile(&rf, dataDir, rootFilePath); err != nil {
		logger.Fatal(err.Error())
	}
	return crypto.BytesToH256(rf.Root)
}

func saveRoot(root crypto.H256) {
	if err := lib.SaveJSONToFile(rootFile{Root: lib.HexBytes(root.Bytes())}, dataDir, rootFilePath); err != nil {
		logger.Fatal(err.Error())
	}
}

func parseKey(s string) crypto.H256 {
	bz, err := lib.StringToBytes(s)
	if err != nil {
		logger.Fatal(err.Error())
	}
	return crypto.BytesToH256(bz)
}

var updateCmd = &cobra.Command{
	Use:   "update <key-hex> <value-hex>",
	Short: "insert, overwrite or delete (value 00..00) a key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		defer s.Close()
		m := metrics.NewMetricsServer(config.MetricsConfig, logger)
		tr := smt.LoadTree(s, loadRoot()).WithMetrics(m)
		newRoot, err := tr.Update(parseKey(args[0]), parseKey(args[1]))
		if err != nil {
			logger.Fatal(err.Error())
		}
		saveRoot(newRoot)
		fmt.Println(newRoot.String())
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key-hex>",
	Short: "read the current value for a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		defer s.Close()
		tr := smt.LoadTree(s, loadRoot())
		value, err := tr.Get(parseKey(args[0]))
		if err != nil {
			logger.Fatal(err.Error())
		}
		fmt.Println(value.String())
	},
}

var proveCmd = &cobra.Command{
	Use:   "prove <key-hex> [key-hex...]",
	Short: "compile a batch membership proof for one or more keys",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		defer s.Close()
		m := metrics.NewMetricsServer(config.MetricsConfig, logger)
		tr := smt.LoadTree(s, loadRoot()).WithMetrics(m)

		batch := smt.NewBatchState(len(args))
		for _, a := range args {
			if err := batch.Insert(parseKey(a), crypto.ZeroH256); err != nil {
				logger.Fatal(err.Error())
			}
		}
		batch.Normalize()

		proof, err := tr.MerkleProof(batch.Keys())
		if err != nil {
			logger.Fatal(err.Error())
		}
		if err := store.CheckProofSize(proof.Program, config.StoreConfig); err != nil {
			logger.Fatal(err.Error())
		}
		fmt.Println(lib.BytesToString(proof.Program))
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <root-hex> <program-hex> <key-hex:value-hex> [key-hex:value-hex...]",
	Short: "verify a batch proof against an expected root",
	Args:  cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		expected := parseKey(args[0])
		program, err := lib.StringToBytes(args[1])
		if err != nil {
			logger.Fatal(err.Error())
		}
		if err := store.CheckProofSize(program, config.StoreConfig); err != nil {
			logger.Fatal(err.Error())
		}
		leaves := make([]smt.KV, 0, len(args)-2)
		for _, pair := range args[2:] {
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				logger.Fatal(fmt.Sprintf("malformed key:value pair %q", pair))
			}
			leaves = append(leaves, smt.KV{Key: parseKey(parts[0]), Value: parseKey(parts[1])})
		}
		if verr := smt.Verify(expected, leaves, program); verr != nil {
			logger.Fatal(verr.Error())
		}
		fmt.Println("ok")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the prometheus metrics endpoint until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		m := metrics.NewMetricsServer(config.MetricsConfig, logger)
		m.Start()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
		s := <-stop
		m.Stop()
		logger.Infof("exit command %s received", s)
		os.Exit(0)
	},
}
