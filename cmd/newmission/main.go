package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const missionsDir = "assets/missions"

const tmpl = `-- {{.Name}}
-- Run with: go run ./cmd/simrun -script {{.Path}}

local lockup = world.garage(0)

function on_frame(t)
  -- world.game_time(), world.player_vehicle(), lockup:state() ...
end
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newmission <MissionName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newmission HarborHeist\n")
		os.Exit(1)
	}

	outPath, err := create(missionsDir, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Run it against a scenario:\n\n")
	fmt.Printf("  go run ./cmd/simrun -scenario assets/scenarios/harbor.yaml -script %s\n", outPath)
}

// create writes the mission template for name into dir and returns its path.
func create(dir, name string) (string, error) {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return "", errors.New("mission name must start with an uppercase letter")
	}

	outPath := filepath.Join(dir, toSnakeCase(name)+".lua")
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("%s already exists", outPath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	content := tmpl
	content = strings.ReplaceAll(content, "{{.Name}}", name)
	content = strings.ReplaceAll(content, "{{.Path}}", filepath.ToSlash(outPath))

	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return outPath, nil
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
