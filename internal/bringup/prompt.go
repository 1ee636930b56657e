package bringup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactive reports whether stdin is a terminal, i.e. whether prompting
// makes sense at all.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompter collects bring-up options interactively for anything the flags
// did not provide.
type Prompter struct {
	src io.Reader
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{src: in, in: bufio.NewReader(in), out: out}
}

// FillOptions prompts for every option not already set. Flag-provided
// values are never asked about again.
func (p *Prompter) FillOptions(opts *Options) error {
	if opts.AuthKey == "" {
		key, err := p.secret("Auth key (tskey-..., empty for browser login): ")
		if err != nil {
			return err
		}
		opts.AuthKey = key
	}

	if len(opts.AdvertiseRoutes) == 0 {
		subnet, err := p.yesNo("Advertise LAN routes as a subnet router?", false)
		if err != nil {
			return err
		}
		if subnet {
			line, err := p.line("Routes to advertise (comma-separated CIDRs): ")
			if err != nil {
				return err
			}
			opts.AdvertiseRoutes = splitRoutes(line)
		}
	}

	if !opts.AcceptRoutes {
		accept, err := p.yesNo("Accept routes advertised by other nodes?", true)
		if err != nil {
			return err
		}
		opts.AcceptRoutes = accept
	}

	if !opts.AdvertiseExitNode && opts.ExitNode == "" {
		offer, err := p.yesNo("Offer this router as an exit node?", false)
		if err != nil {
			return err
		}
		opts.AdvertiseExitNode = offer

		if !offer {
			use, err := p.yesNo("Route all traffic through an exit node?", false)
			if err != nil {
				return err
			}
			if use {
				host, err := p.line("Exit node hostname or IP: ")
				if err != nil {
					return err
				}
				opts.ExitNode = host

				lan, err := p.yesNo("Keep LAN access while using the exit node?", true)
				if err != nil {
					return err
				}
				opts.AllowLANAccess = lan
			}
		}
	}

	return nil
}

func (p *Prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("bringup: read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) yesNo(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.line(fmt.Sprintf("%s [%s]: ", prompt, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// secret reads a line without echo when stdin is a real terminal; otherwise
// it falls back to a plain line read so piped input still works.
func (p *Prompter) secret(prompt string) (string, error) {
	if f, ok := p.src.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("bringup: read auth key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.line(prompt)
}

func splitRoutes(line string) []string {
	var routes []string
	for _, part := range strings.Split(line, ",") {
		if r := strings.TrimSpace(part); r != "" {
			routes = append(routes, r)
		}
	}
	return routes
}
