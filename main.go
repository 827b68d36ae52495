// Command linediff runs the diff sharing service: upload a red/green
// pair of files, get a link to their side-by-side diff.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.etcd.io/bbolt"

	"github.com/thehowl/linediff/pkg/db"
	lhttp "github.com/thehowl/linediff/pkg/http"
	"github.com/thehowl/linediff/pkg/storage"
)

type optsType struct {
	listenAddr     string
	publicURL      string
	dbFile         string
	s3Endpoint     string
	s3AccessKey    string
	s3AccessSecret string
	s3Bucket       string
	cacheSizeMB    int
}

func defaultEnv(s, def string) string {
	v, ok := os.LookupEnv(s)
	if ok {
		return v
	}
	return def
}

func stringVar(p *string, fg, defaultValue, usage string) {
	ev := strings.ReplaceAll(strings.ToUpper(fg), "-", "_")
	flag.StringVar(p, fg, defaultEnv(ev, defaultValue), usage+". env var: "+ev)
}

func main() {
	var opts optsType
	stringVar(&opts.listenAddr, "listen-addr", ":18844", "listen address for the web server")
	stringVar(&opts.publicURL, "public-url", "localhost:18844", "url for the server, used in the curl example")
	stringVar(&opts.dbFile, "db-file", "data/db.bolt", "the file used for the database. "+
		"this will be a cache (if used together with s3) or the permanent database")
	stringVar(&opts.s3Endpoint, "s3-endpoint", "", "s3 endpoint")
	stringVar(&opts.s3AccessKey, "s3-access-key", "", "s3 access key")
	stringVar(&opts.s3AccessSecret, "s3-access-secret", "", "s3 access secret")
	stringVar(&opts.s3Bucket, "s3-bucket", "", "s3 bucket")
	flag.IntVar(&opts.cacheSizeMB, "cache-size-mb", 64, "max size of the local cache when s3 is used")
	flag.Parse()

	// Set up database.
	bdb, err := bbolt.Open(opts.dbFile, 0o600, nil)
	if err != nil {
		panic(fmt.Errorf("db open error: %w", err))
	}

	srv := &lhttp.Server{
		PublicURL: opts.publicURL,
		DB:        &db.DB{DB: bdb},
	}

	local := storage.NewDBStorage(bdb, []byte("storage"))
	if opts.s3Endpoint == "" {
		srv.Storage = local
	} else {
		minioClient, err := minio.New(opts.s3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(opts.s3AccessKey, opts.s3AccessSecret, ""),
			Secure: true,
		})
		if err != nil {
			panic(fmt.Errorf("minio init error: %w", err))
		}
		permanent := storage.NewMinioStorage(minioClient, opts.s3Bucket)
		srv.Storage, err = storage.NewCachedStorage(local, permanent, uint64(opts.cacheSizeMB)<<20)
		if err != nil {
			panic(fmt.Errorf("cached storage init error: %w", err))
		}
	}

	fmt.Println("listening on", opts.listenAddr)
	panic(http.ListenAndServe(opts.listenAddr, srv.Router()))
}
