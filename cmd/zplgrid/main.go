// Command zplgrid compiles a label template document into ZPL II from the
// command line, without going through the HTTP service surface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zplgrid/zplgrid/compile"
	"github.com/zplgrid/zplgrid/template"
)

func main() {
	input := flag.String("in", "", "path to the template JSON document")
	output := flag.String("out", "", "path to write the compiled ZPL (defaults to stdout)")
	dataJSON := flag.String("data", "", "path to a JSON file of variables to bind")
	widthMM := flag.Float64("width-mm", 0, "label width in millimeters")
	heightMM := flag.Float64("height-mm", 0, "label height in millimeters")
	dpi := flag.Int("dpi", 203, "printer resolution in dots per inch")
	debug := flag.Bool("debug", false, "emit a debug frame around every leaf's content rect")
	flag.Parse()

	if *input == "" || *widthMM <= 0 || *heightMM <= 0 {
		fmt.Fprintln(os.Stderr, "usage: zplgrid -in template.json -width-mm 74 -height-mm 26 [-data vars.json] [-out label.zpl]")
		os.Exit(2)
	}

	vars, err := loadVariables(*dataJSON)
	if err != nil {
		log.Fatalf("failed to load variables: %v", err)
	}

	zpl, err := run(*input, template.Target{WidthMM: *widthMM, HeightMM: *heightMM, DPI: *dpi}, vars, *debug)
	if err != nil {
		log.Fatalf("failed to compile: %v", err)
	}

	if *output == "" {
		fmt.Print(zpl)
		return
	}
	if err := os.WriteFile(*output, []byte(zpl), 0o644); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

func loadVariables(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading variables file %s: %w", path, err)
	}
	var vars map[string]string
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing variables file %s: %w", path, err)
	}
	return vars, nil
}

func run(inputPath string, target template.Target, vars map[string]string, debug bool) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", inputPath, err)
	}
	doc, err := template.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	return compile.Compile(doc, target, vars, compile.Options{Debug: debug})
}
