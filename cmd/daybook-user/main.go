package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"daybook/internal/auth"
	"daybook/internal/storage/fs"
)

// Manages the optional auth file consumed by DAYBOOK_AUTH_FILE.

func main() {
	args := os.Args[1:]
	if len(args) == 0 || args[0] == "list" {
		if err := listUsers(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		if err := addUser(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "remove":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		if err := removeUser(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: daybook-user [list|add|remove] <username>")
}

func authFilePath() string {
	if v := os.Getenv("DAYBOOK_AUTH_FILE"); v != "" {
		return v
	}
	return "auth.txt"
}

func listUsers() error {
	users, err := readUsers(authFilePath())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(os.Stdout, "no users")
		return nil
	}
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}

func addUser(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return errors.New("username must not be empty")
	}
	if strings.Contains(user, ":") {
		return errors.New("username must not contain ':'")
	}

	path := authFilePath()
	users, err := readUsers(path)
	if err != nil {
		return err
	}
	if _, exists := users[user]; exists {
		ok, err := promptYesNo(fmt.Sprintf("User %q exists. Update password? [y/N]: ", user))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "no changes made")
			return nil
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	users[user] = hash
	if err := writeUsers(path, users); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "updated %s\n", path)
	return nil
}

func removeUser(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return errors.New("username must not be empty")
	}
	path := authFilePath()
	users, err := readUsers(path)
	if err != nil {
		return err
	}
	if _, ok := users[user]; !ok {
		fmt.Fprintf(os.Stderr, "user %q not found\n", user)
		return nil
	}
	ok, err := promptYesNo(fmt.Sprintf("Remove user %q? [y/N]: ", user))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "no changes made")
		return nil
	}
	delete(users, user)
	if err := writeUsers(path, users); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "updated %s\n", path)
	return nil
}

// readUsers keeps the raw hash strings so the file can be rewritten
// without re-hashing.
func readUsers(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("open auth file: %w", err)
	}
	defer f.Close()

	users := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid auth line %d: expected user:hash", lineNum)
		}
		users[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read auth file: %w", err)
	}
	return users, nil
}

func writeUsers(path string, users map[string]string) error {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+":"+users[name])
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return fs.WriteFileAtomic(path, []byte(content), 0o600)
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}

func promptYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
