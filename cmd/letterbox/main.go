package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/kjk/letterbox/backup"
	"github.com/kjk/letterbox/httputil"
	"github.com/kjk/letterbox/inbox"
	"github.com/kjk/letterbox/inboxclient"
	"github.com/kjk/letterbox/letterstore"
	"github.com/kjk/letterbox/log"
	"github.com/kjk/letterbox/u"
)

const appName = "letterbox"

var (
	flgAddr      string
	flgDataDir   string
	flgFile      string
	flgStaticDir string
	flgLogDir    string
	flgVerbose   bool
	flgSync      bool
	flgBackup    bool
	flgRestore   string
	flgSend      string

	flgName    string
	flgCountry string
	flgEmail   string
	flgLetter  string
)

func defaultAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return ":" + port
}

func parseFlags() {
	flag.StringVar(&flgAddr, "addr", defaultAddr(), "address to listen on")
	flag.StringVar(&flgDataDir, "data-dir", ".", "directory with the letters file")
	flag.StringVar(&flgFile, "file", letterstore.DefaultFileName, "name of the letters file")
	flag.StringVar(&flgStaticDir, "static-dir", ".", "directory with static files")
	flag.StringVar(&flgLogDir, "log-dir", "", "directory for log files, none if empty")
	flag.BoolVar(&flgVerbose, "verbose", false, "verbose logging")
	flag.BoolVar(&flgSync, "sync", true, "fsync after every saved letter")
	flag.BoolVar(&flgBackup, "backup", false, "back up letters file to s3 and exit")
	flag.StringVar(&flgRestore, "restore", "", "restore backup at this remote path into -data-dir and exit")
	flag.StringVar(&flgSend, "send", "", "send a letter to server at this url and exit")
	flag.StringVar(&flgName, "name", "", "name for -send")
	flag.StringVar(&flgCountry, "country", "", "country for -send")
	flag.StringVar(&flgEmail, "email", "", "email for -send")
	flag.StringVar(&flgLetter, "letter", "", "letter for -send")
	flag.Parse()
}

func openStore() *letterstore.Store {
	store := &letterstore.Store{
		DataDir:    flgDataDir,
		FileName:   flgFile,
		SyncWrites: flgSync,
	}
	err := letterstore.OpenStore(store)
	if err != nil {
		log.Errorf("letterstore.OpenStore() failed with '%s'", err)
		os.Exit(1)
	}
	return store
}

func newBackupClient(ctx context.Context) *backup.Client {
	client, err := backup.New(ctx, backup.ConfigFromEnv())
	if err != nil {
		log.Errorf("backup.New() failed with '%s'", err)
		os.Exit(1)
	}
	return client
}

func runBackup() {
	store := openStore()
	defer store.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	client := newBackupClient(ctx)
	res, err := client.Upload(ctx, store, appName, time.Now())
	if err != nil {
		log.Errorf("backup failed with '%s'", err)
		os.Exit(1)
	}
	log.Logf("backed up '%s' (%s, %s compressed) as '%s'\n", store.Path(), u.FormatSize(res.Size), u.FormatSize(res.CompressedSize), res.RemotePath)
}

func runRestore(remotePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	client := newBackupClient(ctx)
	dstPath := filepath.Join(flgDataDir, flgFile)
	if err := client.Restore(ctx, remotePath, dstPath); err != nil {
		log.Errorf("restore of '%s' failed with '%s'", remotePath, err)
		os.Exit(1)
	}
	log.Logf("restored '%s' to '%s'\n", remotePath, dstPath)
}

func runSend(uri string) {
	c := &inboxclient.Client{BaseURL: uri}
	l := &inbox.Letter{
		Name:    flgName,
		Country: flgCountry,
		Email:   flgEmail,
		Letter:  flgLetter,
	}
	reply, err := c.Submit(context.Background(), l)
	if err != nil {
		log.Errorf("sending letter to '%s' failed with '%s'", uri, err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", reply)
}

func runServer() {
	store := openStore()
	defer store.Close()

	if !u.DirExists(flgStaticDir) {
		log.Logf("static directory '%s' doesn't exist, not serving static files\n", flgStaticDir)
		flgStaticDir = ""
	}
	s := &inbox.Server{
		Store:           store,
		StaticDir:       flgStaticDir,
		ServeCompressed: true,
	}
	ln, err := net.Listen("tcp", flgAddr)
	if err != nil {
		log.Errorf("net.Listen('%s') failed with '%s'", flgAddr, err)
		os.Exit(1)
	}
	base := "http://" + ln.Addr().String()
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok && tcpAddr.IP.IsUnspecified() {
		base = fmt.Sprintf("http://localhost:%d", tcpAddr.Port)
	}
	log.Logf("Server running on port %s\n", flgAddr)
	log.Logf("Open %s\n", httputil.JoinURL(base, "/"))
	log.Logf("Admin page: %s\n", httputil.JoinURL(base, "/admin"))
	log.Logf("Letters saved to: %s\n", store.Path())
	log.Verbosef("sync writes: %v, static dir: '%s'\n", store.SyncWrites, flgStaticDir)

	srv := httputil.NewServer(flgAddr, s.Handler())
	err = httputil.RunServerUntilSignal(srv, ln)
	log.IfErrf(err, "server stopped with '%s'", err)
	log.Logf("server stopped\n")
}

func main() {
	parseFlags()
	log.Verbose = flgVerbose
	if flgLogDir != "" {
		log.Init(&log.Config{Dir: flgLogDir})
	}
	defer log.Close()

	switch {
	case flgSend != "":
		runSend(flgSend)
	case flgBackup:
		runBackup()
	case flgRestore != "":
		runRestore(flgRestore)
	default:
		runServer()
	}
}
