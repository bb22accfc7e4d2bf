// Package shell implements the numbered-menu interactive loop over a contact store.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/logging"
	"github.com/smileynet/rolodex/internal/state"
)

// Separator is printed after each contact record.
const Separator = "-----------------------------"

const menu = `
Menu:
1. Add Contact
2. Print All Contacts
3. Search Contacts
4. Save Contacts to File
5. Load Contacts from File
6. Exit
Enter number: `

// Menu choices.
const (
	choiceAdd = iota + 1
	choicePrint
	choiceSearch
	choiceSave
	choiceLoad
	choiceExit
)

// Persister saves and loads a contact store. Implemented by *state.FileStore.
type Persister interface {
	Save(c state.Contacts, path string) error
	Load(c state.Contacts, path string) error
}

// Shell drives a contact store from line-oriented text input.
type Shell struct {
	store       *contact.Store
	files       Persister
	in          *bufio.Reader
	out         io.Writer
	log         logging.Logger
	defaultFile string
}

// Option configures a Shell.
type Option func(*Shell)

// WithInput sets the input source (default: os.Stdin).
func WithInput(r io.Reader) Option {
	return func(s *Shell) { s.in = bufio.NewReader(r) }
}

// WithOutput sets the output destination (default: os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// WithDefaultFile sets the file used when a filename prompt is left empty.
// With no default, an empty filename is passed through and fails like any
// other unusable path.
func WithDefaultFile(path string) Option {
	return func(s *Shell) { s.defaultFile = path }
}

// New creates a Shell over store, persisting through files.
func New(store *contact.Store, files Persister, opts ...Option) *Shell {
	s := &Shell{
		store: store,
		files: files,
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errInputClosed ends the loop when input reaches EOF mid-session.
var errInputClosed = errors.New("shell: input closed")

// ErrInput reports that reading the input stream failed for a reason other
// than end of input.
var ErrInput = errors.New("shell: reading input")

// Run shows the menu and handles choices until Exit is chosen or input ends.
// Both are a normal finish and return nil; only a failing reader is an error.
func (s *Shell) Run() error {
	for {
		s.printf("%s", menu)
		line, err := s.readLine()
		if err != nil {
			return s.finish(err)
		}

		switch parseChoice(line) {
		case choiceAdd:
			err = s.addContact()
		case choicePrint:
			s.printContacts(s.store.All(), "No contacts available.")
		case choiceSearch:
			err = s.searchContacts()
		case choiceSave:
			err = s.saveContacts()
		case choiceLoad:
			err = s.loadContacts()
		case choiceExit:
			s.printf("Exiting program.\n")
			return nil
		default:
			s.printf("Invalid choice. Please try again.\n")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// parseChoice returns the menu number in line, or 0 if it is not a number.
func parseChoice(line string) int {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0
	}
	return n
}

// finish maps a read error at any prompt to Run's result.
func (s *Shell) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		s.log.Debug("input closed, leaving shell")
		s.printf("\n")
		return nil
	}
	return err
}

func (s *Shell) addContact() error {
	var p contact.Person
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter Name: ", &p.Name},
		{"Enter Email: ", &p.Email},
		{"Enter Phone: ", &p.Phone},
		{"Enter Address: ", &p.Address},
	} {
		v, err := s.prompt(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	age, err := s.promptAge()
	if err != nil {
		return err
	}
	p.Age = age

	s.store.Add(p)
	s.log.Debug("contact added", "name", p.Name, "count", s.store.Len())
	return nil
}

// promptAge asks until it gets a whole number.
func (s *Shell) promptAge() (int, error) {
	for {
		v, err := s.prompt("Enter Age: ")
		if err != nil {
			return 0, err
		}
		age, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return age, nil
		}
		s.printf("Invalid age. Please enter a whole number.\n")
	}
}

func (s *Shell) searchContacts() error {
	rawField, err := s.prompt("Search by (name/email/phone/address): ")
	if err != nil {
		return err
	}
	value, err := s.prompt("Enter value: ")
	if err != nil {
		return err
	}

	field, known := contact.ParseField(rawField)
	matches := s.store.Search(field, value)
	s.printContacts(matches, "No matching contacts found.")
	if !known {
		s.log.Debug("search on unknown field", "field", rawField)
		s.printf("Note: %q is not a searchable field (%s).\n", rawField, fieldList())
	}
	return nil
}

func (s *Shell) saveContacts() error {
	path, err := s.promptFile("Enter filename to save contacts (e.g., contacts.json): ")
	if err != nil {
		return err
	}
	if err := s.files.Save(s.store, path); err != nil {
		s.printf("Failed to save contacts: %v\n", err)
		return nil
	}
	s.printf("Contacts saved to %s\n", path)
	return nil
}

func (s *Shell) loadContacts() error {
	path, err := s.promptFile("Enter filename to load contacts (e.g., contacts.json): ")
	if err != nil {
		return err
	}
	if err := s.files.Load(s.store, path); err != nil {
		s.printf("Failed to load contacts: %v\n", err)
		return nil
	}
	s.printf("Contacts loaded from %s\n", path)
	return nil
}

// promptFile reads a filename, substituting the default for an empty answer.
func (s *Shell) promptFile(text string) (string, error) {
	path, err := s.prompt(text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" && s.defaultFile != "" {
		return s.defaultFile, nil
	}
	return path, nil
}

// printContacts writes each person as a block of labeled lines, or empty if
// there are none.
func (s *Shell) printContacts(people []contact.Person, empty string) {
	if len(people) == 0 {
		s.printf("%s\n", empty)
		return
	}
	for _, p := range people {
		s.printf("%s", FormatPerson(p))
	}
}

// FormatPerson renders p in the labeled multi-line record format, separator included.
func FormatPerson(p contact.Person) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nAddress: %s\nAge: %d\n%s\n",
		p.Name, p.Email, p.Phone, p.Address, p.Age, Separator)
}

func (s *Shell) prompt(text string) (string, error) {
	s.printf("%s", text)
	return s.readLine()
}

// readLine returns the next input line without its terminator. A final line
// without a newline is still returned; EOF with nothing read is errInputClosed.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", errInputClosed
			}
		} else {
			return "", fmt.Errorf("%w: %w", ErrInput, err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func fieldList() string {
	names := make([]string, len(contact.Fields))
	for i, f := range contact.Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
