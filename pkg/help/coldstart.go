package help

const ColdstartYAML = `# wordcount Quick Start

how_it_works: |
  Each file is split into --threads byte ranges that are scanned in parallel.
  A word is counted by the range holding its first byte, so results are the
  same for any thread count.

defaults:
  threads: 10
  buffer_size: 1024
  separators: "\\s\\t\\n\\r"

output_modes:
  text: "word -> count lines ordered by word (default)"
  json: "summary with per-file results"
  yaml: "same summary as YAML"

commands:
  basic_count: |
    wordcount count book.txt

  many_files: |
    wordcount count -t 16 -b 65536 logs/*.log

  custom_separators: |
    wordcount count --separators '\s\t\n\r,.;:' essay.txt

  top_words: |
    wordcount count --top 25 --format yaml corpus.txt

  from_config: |
    wordcount count --config wordcount.yaml

  list_runs: |
    wordcount runs
    wordcount runs --failed
    wordcount runs --path books

  run_details: |
    wordcount run 5

config_file: |
  files: [a.txt, b.txt]
  separators: "\\s\\t\\n\\r"
  threads: 8
  buffer_size: 4096
  format: text
  top: 0
`
