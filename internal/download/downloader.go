package download

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/net/http/httpproxy"

	"github.com/timeless-lut/tjlut/internal/utils"
)

// Config configures a Download
type Config struct {
	Proxy    string
	Insecure bool
	// ResumeAll resumes partial .download files instead of restarting them
	ResumeAll bool
	// SkipAll leaves partial .download files alone (another instance owns them)
	SkipAll  bool
	Retries  int
	Progress bool
}

// Download is a downloader object
type Download struct {
	URL      string
	Sha256   string
	DestName string
	Headers  map[string]string

	size         int64
	bytesResumed int64
	resume       bool
	canResume    bool
	conf         *Config

	client *http.Client
}

// NewDownload creates a new downloader
func NewDownload(conf *Config) *Download {
	if conf == nil {
		conf = &Config{}
	}
	return &Download{
		conf: conf,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:             GetProxy(conf.Proxy),
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: conf.Insecure},
				ForceAttemptHTTP2: true,
			},
		},
	}
}

// GetProxy takes either an input string or read the enviornment and returns a proxy function
func GetProxy(proxy string) func(*http.Request) (*url.URL, error) {
	if len(proxy) > 0 {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.WithError(err).Error("bad proxy url")
			return http.ProxyFromEnvironment
		}
		log.Debugf("proxy set to: %s", proxyURL)

		return http.ProxyURL(proxyURL)
	}

	conf := httpproxy.FromEnvironment()
	if len(conf.HTTPProxy) > 0 || len(conf.HTTPSProxy) > 0 {
		log.WithFields(log.Fields{
			"http_proxy":  conf.HTTPProxy,
			"https_proxy": conf.HTTPSProxy,
			"no_proxy":    conf.NoProxy,
		}).Debugf("proxy info from environment")
	}

	return http.ProxyFromEnvironment
}

func (d *Download) getHEAD(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.URL, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create http request")
	}
	req.Header.Add("User-Agent", utils.RandomAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return fmt.Errorf("content length is not set")
	}

	d.size = resp.ContentLength

	if resp.Header.Get("Accept-Ranges") == "bytes" {
		d.canResume = true
	}

	return nil
}

// Get downloads url to dest, retrying transient failures and verifying sha256 when given.
func (d *Download) Get(ctx context.Context, uri, dest, sha string) error {
	d.URL = uri
	d.DestName = dest
	d.Sha256 = sha
	d.size = 0
	d.resume = false
	d.canResume = false
	d.bytesResumed = 0

	attempts := d.conf.Retries
	if attempts <= 0 {
		attempts = 1
	}
	return utils.Retry(attempts, 500*time.Millisecond, func() error {
		err := d.Do(ctx)
		if err == nil {
			return nil
		}
		var cerr *utils.ChecksumMismatchError
		if errors.As(err, &cerr) || ctx.Err() != nil {
			return utils.Stop(err)
		}
		var serr *StatusError
		if errors.As(err, &serr) && serr.Code < 500 {
			return utils.Stop(err)
		}
		utils.Indent(log.WithError(err).Warn, 3)("trying again...")
		return err
	})
}

// StatusError is a non-success HTTP status
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "server return status: " + e.Status }

// Do will download a url to a local file. It's efficient because it will
// write as it downloads and not load the whole file into memory.
func (d *Download) Do(ctx context.Context) error {
	if err := d.getHEAD(ctx); err != nil {
		log.WithError(err).Debug("HEAD request failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create http GET request")
	}
	req.Header.Add("User-Agent", utils.RandomAgent())
	for k, v := range d.Headers {
		req.Header.Add(k, v)
	}

	if d.canResume {
		if f, err := os.Stat(d.DestName + ".download"); err == nil {
			switch {
			case d.conf.SkipAll:
				utils.Indent(log.Info, 2)(fmt.Sprintf("%s - SKIPPED", d.DestName+".download"))
				return nil
			case d.conf.ResumeAll:
				d.resume = true
			default:
				utils.Indent(log.Info, 2)(fmt.Sprintf("Downloading %s - RESTARTED", d.DestName+".download"))
				d.resume = false
			}

			if d.resume {
				d.bytesResumed = f.Size()
				rangeHeader := fmt.Sprintf("bytes=%d-", d.bytesResumed)
				utils.Indent(log.WithField("range", rangeHeader).Debug, 2)("Setting Header")
				req.Header.Add("Range", rangeHeader)
			}
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNRESET) {
			utils.Indent(log.Error, 2)(fmt.Sprintf("CONNECTION RESET: %v", err))
		}
		return errors.Wrap(err, "failed to download file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if d.resume && resp.StatusCode == http.StatusOK {
		// server ignored the range request
		d.resume = false
		d.bytesResumed = 0
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		log.Warn("Server returned a HTML page")
	}

	var dest *os.File
	if d.resume {
		utils.Indent(log.WithField("file", d.DestName).Warn, 2)("Resuming a previous download")
		dest, err = os.OpenFile(d.DestName+".download", os.O_APPEND|os.O_WRONLY, 0644)
	} else {
		dest, err = os.Create(d.DestName + ".download")
	}
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", d.DestName+".download")
	}

	var p *mpb.Progress
	var reader io.ReadCloser = resp.Body

	if d.size > 0 && d.conf.Progress {
		p = mpb.NewWithContext(ctx,
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
		bar := p.New(d.size,
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.CountersKibiByte("\t% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "✅ "),
				decor.Name(" ] "),
				decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
			),
		)
		if d.resume {
			bar.IncrInt64(d.bytesResumed)
			bar.SetRefill(d.bytesResumed)
		}
		// create proxy reader
		reader = bar.ProxyReader(resp.Body)
		defer reader.Close()
	}

	if _, err := io.Copy(dest, reader); err != nil {
		dest.Close()
		return errors.Wrap(err, "failed to copy body reader data")
	}
	if p != nil {
		p.Wait()
	}

	// close file
	dest.Sync()
	if err := dest.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", d.DestName+".download")
	}

	if len(d.Sha256) > 0 {
		utils.Indent(log.Info, 2)("verifying sha256sum...")
		if err := utils.VerifySha256(d.DestName+".download", d.Sha256); err != nil {
			if rerr := os.Remove(d.DestName + ".download"); rerr != nil {
				return fmt.Errorf("cannot remove downloaded file with checksum mismatch: %v", rerr)
			}
			return err
		}
	}

	if err := os.Rename(d.DestName+".download", d.DestName); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", d.DestName+".download", d.DestName)
	}

	return nil
}
