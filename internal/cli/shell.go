package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/session"
)

// Dispatcher executes one session command against the session state.
type Dispatcher interface {
	Dispatch(ctx context.Context, state *session.State, cmd session.Command) error
}

// Vocabulary lists the moods and genres a user can ask for.
type Vocabulary interface {
	DistinctMoods() []string
	DistinctGenres() []string
}

// ShellOptions configures a Shell.
type ShellOptions struct {
	// OnUserChange is called with the new user name after login and with ""
	// after logout.
	OnUserChange func(name string)
	Logger       *slog.Logger
	Limit        int
}

// Shell is the line-oriented interactive front end for one session.
type Shell struct {
	dispatcher Dispatcher
	vocabulary Vocabulary
	reader     *LineReader
	writer     io.Writer
	logger     *slog.Logger
	onUser     func(string)
	state      *session.State
	limit      int
}

// NewShell creates a shell reading commands from in and writing to out. A nil
// in is allowed when commands are fed through Execute only.
func NewShell(dispatcher Dispatcher, vocabulary Vocabulary, in io.Reader, out io.Writer, opts ShellOptions) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	onUser := opts.OnUserChange
	if onUser == nil {
		onUser = func(string) {}
	}
	var reader *LineReader
	if in != nil {
		reader = NewLineReader(in)
	}
	return &Shell{
		reader:     reader,
		dispatcher: dispatcher,
		vocabulary: vocabulary,
		writer:     out,
		logger:     logger,
		onUser:     onUser,
		state:      session.NewState(),
		limit:      opts.Limit,
	}
}

// State returns the live session state.
func (s *Shell) State() *session.State {
	return s.state
}

// ErrQuit is returned by Execute when the user asks to leave.
var ErrQuit = errors.New("quit")

// Run reads and executes commands until quit, end of input, or cancellation.
func (s *Shell) Run(ctx context.Context) error {
	if s.reader == nil {
		return fmt.Errorf("shell has no input")
	}
	s.say(FormatTitle("mood2movie"))
	s.say(SubtleStyle.Render("Movies for the mood you're in. Type 'start' to begin or 'help' for commands."))

	for {
		s.write(FormatPrompt(s.PromptLabel()))
		line, err := s.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInputCancelled) {
				s.say("")
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}
		if line == "" {
			continue
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				s.say(FormatInfo("Enjoy the show! " + PopcornIcon))
				return nil
			}
			s.Report(err)
		}
	}
}

// Execute runs one command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "help", "?":
		s.write(s.help())
		return nil
	case "quit", "exit":
		return ErrQuit
	case "moods":
		s.write(RenderList("Moods", s.vocabulary.DistinctMoods()))
		return nil
	case "genres":
		s.write(RenderList("Genres", append([]string{catalog.AllGenres}, s.vocabulary.DistinctGenres()...)))
		return nil
	case "start":
		return s.dispatch(ctx, session.Start{})
	case "login":
		if err := s.dispatch(ctx, session.Login{Username: rest}); err != nil {
			return err
		}
		s.onUser(s.state.UserName)
		s.say(FormatSuccess(fmt.Sprintf("Welcome, %s! %d movies in your library.", s.state.UserName, len(s.state.Library))))
		return nil
	case "logout":
		if err := s.dispatch(ctx, session.Logout{}); err != nil {
			return err
		}
		s.onUser("")
		s.say(FormatInfo("Logged out."))
		return nil
	case "recommend", "rec":
		return s.recommend(ctx, rest)
	case "save":
		return s.save(ctx, rest)
	case "library", "lib":
		if !s.state.LoggedIn() {
			return session.ErrWrongPage
		}
		s.write(RenderLibrary(s.state.Library))
		return nil
	case "status":
		return s.setStatus(ctx, rest)
	case "notes":
		return s.setNotes(ctx, rest)
	case "remove", "rm":
		if rest == "" {
			return common.NewUserError("Usage: remove <title>", nil)
		}
		if err := s.dispatch(ctx, session.Remove{Title: rest}); err != nil {
			return err
		}
		s.say(FormatSuccess(fmt.Sprintf("Removed %q.", rest)))
		return nil
	default:
		return common.NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", verb), nil)
	}
}

func (s *Shell) recommend(ctx context.Context, args string) error {
	parts := splitArgs(args)
	if len(parts) == 0 || parts[0] == "" {
		return common.NewUserError("Usage: recommend <mood> [| <genre>]", nil)
	}
	genre := catalog.AllGenres
	if len(parts) > 1 && parts[1] != "" && !strings.EqualFold(parts[1], catalog.AllGenres) {
		genre = parts[1]
	}

	err := s.dispatch(ctx, session.Recommend{Mood: parts[0], Genre: genre, Limit: s.limit})
	if errors.Is(err, common.ErrNoMatches) {
		s.say(FormatWarning(fmt.Sprintf("No %s movies for a %s mood. Try 'moods' or 'genres'.", genre, parts[0])))
		return nil
	}
	if err != nil {
		return err
	}
	s.write(RenderRecommendations(s.state.LastRecs))
	s.say(SubtleStyle.Render("Save one with 'save <number>' or 'save <title>'."))
	return nil
}

func (s *Shell) save(ctx context.Context, arg string) error {
	if arg == "" {
		return common.NewUserError("Usage: save <number|title>", nil)
	}
	title := arg
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(s.state.LastRecs) {
		title = s.state.LastRecs[n-1].Title
	}

	if err := s.dispatch(ctx, session.SaveRecommendation{Title: title}); err != nil {
		return err
	}
	s.say(FormatSuccess(fmt.Sprintf("Added %q to your library.", title)))
	return nil
}

func (s *Shell) setStatus(ctx context.Context, args string) error {
	parts := splitArgs(args)
	if len(parts) != 2 {
		return common.NewUserError("Usage: status <title> | <status>", nil)
	}
	status, err := model.ParseWatchStatus(parts[1])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown status %q. Choose one of: %s", parts[1], statusChoices()), err)
	}

	if err := s.dispatch(ctx, session.SetStatus{Title: parts[0], Status: status}); err != nil {
		return err
	}
	s.say(FormatSuccess(fmt.Sprintf("%q is now %s.", parts[0], status)))
	return nil
}

func (s *Shell) setNotes(ctx context.Context, args string) error {
	title, text, _ := strings.Cut(args, "|")
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" {
		return common.NewUserError("Usage: notes <title> | <text>", nil)
	}

	if rec, ok := s.state.Library[title]; ok && !rec.Status.AllowsComments() {
		s.say(FormatWarning(fmt.Sprintf("Notes open up once %q is %s or %s.", title, model.StatusWatched, model.StatusNotWatching)))
		return nil
	}

	if err := s.dispatch(ctx, session.SetComments{Title: title, Text: text}); err != nil {
		return err
	}
	s.say(FormatSuccess(fmt.Sprintf("Notes saved for %q.", title)))
	return nil
}

func (s *Shell) dispatch(ctx context.Context, cmd session.Command) error {
	err := s.dispatcher.Dispatch(ctx, s.state, cmd)
	if err != nil {
		s.logger.Debug("command failed", "command", fmt.Sprintf("%T", cmd), "page", s.state.Page, "error", err)
	}
	return err
}

// Report prints err the way the user should see it.
func (s *Shell) Report(err error) {
	switch {
	case errors.Is(err, session.ErrWrongPage):
		s.say(FormatWarning(s.pageHint()))
	case errors.Is(err, common.ErrExternalService):
		s.say(FormatError("The recommendation service is unavailable right now."))
	default:
		s.say(FormatError(common.UserMessage(err)))
	}
}

// PromptLabel names the current page for the input prompt.
func (s *Shell) PromptLabel() string {
	switch s.state.Page {
	case session.PageLogin:
		return "login"
	case session.PageApp:
		return s.state.UserName
	default:
		return "mood2movie"
	}
}

func (s *Shell) pageHint() string {
	switch s.state.Page {
	case session.PageLanding:
		return "Type 'start' first."
	case session.PageLogin:
		return "Log in first with 'login <name>'."
	default:
		return "You're already logged in. Use 'logout' to switch users."
	}
}

func (s *Shell) help() string {
	return RenderList("Commands", []string{
		"start                         begin a session",
		"login <name>                  open your library",
		"moods | genres                list what you can ask for",
		"recommend <mood> [| <genre>]  get picks with explanations",
		"save <number|title>           keep a pick from the last batch",
		"library                       show your saved movies",
		"status <title> | <status>     " + statusChoices(),
		"notes <title> | <text>        notes for watched or skipped movies",
		"remove <title>                drop a movie",
		"logout | quit",
	})
}

func (s *Shell) say(text string) {
	s.write(text + "\n")
}

func (s *Shell) write(text string) {
	if _, err := io.WriteString(s.writer, text); err != nil {
		s.logger.Warn("Failed to write shell output", "error", err)
	}
}

// splitArgs splits "a | b | c" into trimmed parts.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func statusChoices() string {
	names := make([]string, len(model.AllStatuses))
	for i, st := range model.AllStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
