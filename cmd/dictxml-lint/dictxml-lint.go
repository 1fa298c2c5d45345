package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dudanian/dictxml"
	"github.com/dudanian/dictxml/internal/cliutil"
	"github.com/dudanian/dictxml/jmdict"
	"github.com/jessevdk/go-flags"
)

type cmdopts struct {
	Entities bool `long:"entities"`
	Events   bool `long:"events"`
	JMdict   bool `long:"jmdict"`
	NoBlanks bool `long:"noblanks"`
	Version  bool `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("dictxml-lint: using dictxml version %s\n", dictxml.Version)
}

func showUsage() {
	fmt.Printf(`Usage : dictxml-lint [options] XMLfiles ...
	Parse the XML files and report whether they are well formed
	--entities : dump the entities declared in the internal DTD subset
	--events   : print the event stream
	--jmdict   : decode the files as JMdict and report entry counts
	--noblanks : suppress whitespace-only text events
	--version  : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inputCh := make(chan io.Reader)
	// buffered so the producer can report a failed Open and still close
	// inputCh while the consumer is mid-range
	errCh := make(chan error, 1)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- fh
			}
		}()
	case !cliutil.IsTty(os.Stdin.Fd()):
		go func() {
			defer close(inputCh)
			inputCh <- os.Stdin
		}()
	default:
		showUsage()
		return 1
	}

	for in := range inputCh {
		if err := process(in, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		if c, ok := in.(io.Closer); ok && in != os.Stdin {
			c.Close()
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s", err)
		return 1
	default:
	}

	return 0
}

func process(in io.Reader, opts cmdopts) error {
	if opts.JMdict {
		return processJMdict(in)
	}

	var options []dictxml.TokenizerOption
	if opts.NoBlanks {
		options = append(options, dictxml.WithKeepBlanks(false))
	}

	tok, err := dictxml.New(in, options...)
	if err != nil {
		return err
	}

	var starts, texts int
	for {
		ev, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch ev := ev.(type) {
		case dictxml.StartElement:
			starts++
			if opts.Events {
				fmt.Printf("start %s", ev.Name)
				for _, attr := range ev.Attributes {
					fmt.Printf(" %s=%q", attr.Name, attr.Value)
				}
				fmt.Println()
			}
		case dictxml.EndElement:
			if opts.Events {
				fmt.Printf("end   %s\n", ev.Name)
			}
		case dictxml.Text:
			texts++
			if opts.Events {
				fmt.Printf("text  %q\n", string(ev))
			}
		}
	}

	if opts.Entities {
		if dtd := tok.DTD(); dtd != nil {
			for _, name := range dtd.EntityNames() {
				v, _ := dtd.LookupEntity(name)
				fmt.Printf("entity %s = %q\n", name, v)
			}
		}
	}

	fmt.Printf("ok: %d elements, %d text nodes\n", starts, texts)
	return nil
}

func processJMdict(in io.Reader) error {
	r, err := jmdict.NewReader(in)
	if err != nil {
		return err
	}

	var entries, senses int
	for {
		e, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		entries++
		senses += len(e.Senses)
	}

	fmt.Printf("ok: %d entries, %d senses\n", entries, senses)
	return nil
}
