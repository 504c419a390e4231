package vectra

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/denesv/vectra/utils"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Ops holds the source and destination the CLI operates on.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the relevant information about the conversion process and the generated document.
type result struct {
	path string
	err  error
}

// Execute runs the vectorization process over a file, a directory tree, a URL
// or a stdin/stdout pipe. Directories are processed concurrently with a
// bounded worker pool; each conversion stays independent of the others.
func (v *Vectorizer) Execute(op *Ops) {
	var (
		imgFile *os.File
		fs      os.FileInfo
		err     error
	)

	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ VECTRA", utils.StatusMessage),
		utils.DecorateText("⇢ vectorizing image (be patient, it may take a while)...", utils.DefaultMessage),
	)
	v.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)

	// Supported files
	validExtensions := []string{".jpg", ".png", ".jpeg", ".bmp", ".gif"}

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		src, err := utils.DownloadImage(op.Src)
		if src != nil {
			defer os.Remove(src.Name())
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		fs, err = src.Stat()
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		img, err := os.Open(src.Name())
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Unable to open the temporary image file: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		imgFile = img
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(op.Src)
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		var wg sync.WaitGroup
		// Read destination file or directory.
		_, err := os.Stat(op.Dst)
		if err != nil {
			err = os.Mkdir(op.Dst, 0755)
			if err != nil {
				log.Fatalf(
					utils.DecorateText("Unable to get dir stats: %v\n", utils.ErrorMessage),
					utils.DecorateText(err.Error(), utils.DefaultMessage),
				)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		// Process the image files from the specified directory concurrently.
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, validExtensions)

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				v.consumer(done, paths, op.Dst, ch)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values.
		for res := range ch {
			v.printStatus(res.path, op.PipeName, res.err)
		}

		if err := <-errc; err != nil {
			fmt.Fprintf(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		ext := filepath.Ext(op.Dst)
		if ext != ".svg" && op.Dst != op.PipeName {
			log.Fatalf(utils.DecorateText(fmt.Sprintf("%v file type not supported as destination", ext), utils.ErrorMessage))
		}

		src := op.Src
		if imgFile != nil {
			src = imgFile.Name()
		}
		err := v.processor(src, op.Dst, op.PipeName)
		v.printStatus(op.Dst, op.PipeName, err)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// walkDir starts a goroutine to walk the specified directory tree in recursive manner
// and send the path of each regular file on the string channel.
// It sends the result of the walk on the error channel.
// It terminates in case done channel is closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			isFileSupported := false
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			fx := filepath.Ext(info.Name())
			for _, ext := range srcExts {
				if ext == fx {
					isFileSupported = true
					break
				}
			}

			if isFileSupported {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// consumer reads the path names from the paths channel, runs the vectorizer
// against each source image and sends the results on a new channel.
func (v *Vectorizer) consumer(
	done <-chan interface{},
	paths <-chan string,
	dest string,
	res chan<- result,
) {
	for src := range paths {
		base := filepath.Base(src)
		out := strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
		err := v.processFile(src, filepath.Join(dest, out))

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// processFile vectorizes a single image file into an SVG document on disk.
func (v *Vectorizer) processFile(in, out string) error {
	img, err := decodeImg(in)
	if err != nil {
		return err
	}

	res, err := v.Vectorize(imgToNRGBA(img))
	if err != nil {
		return err
	}

	return os.WriteFile(out, []byte(res.SVG), 0644)
}

// processor runs the vectorizer over the source image and encodes the SVG
// document into the destination, either one possibly being a pipe.
func (v *Vectorizer) processor(in, out, pipeName string) error {
	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		v.Spinner.RestoreCursor()
		os.Exit(1)
	}()

	// Start the progress indicator.
	v.Spinner.Start()
	defer func() {
		stopMsg := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ VECTRA", utils.StatusMessage),
			utils.DecorateText("⇢ vectorizing image... ✔", utils.DefaultMessage))
		v.Spinner.StopMsg = stopMsg
		// Stop the progress indicator.
		v.Spinner.Stop()
	}()

	if in != pipeName && out != pipeName {
		return v.processFile(in, out)
	}

	src, dst, err := pathToFile(in, out, pipeName)
	if err != nil {
		return err
	}
	if f, ok := src.(*os.File); ok && f != os.Stdin {
		defer f.Close()
	}
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		defer f.Close()
	}

	return v.Process(src, dst)
}

// pathToFile converts the source and destination paths to readable and writable files.
func pathToFile(in, out, pipeName string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create the destination file: %v", err)
		}
	}
	return src, dst, nil
}

// printStatus displays the relevant information about the conversion process.
func (v *Vectorizer) printStatus(fname, pipeName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError vectorizing the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe vector document has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}
