// Package manifest handles parsing and validation of KCP knowledge manifests
// (knowledge.yaml). Parsing produces an immutable KnowledgeManifest; validation
// reports structured errors (must fix) and warnings (should fix) without ever
// failing. The package also detects cycles in the depends_on graph so that
// downstream consumers can traverse it safely.
package manifest
