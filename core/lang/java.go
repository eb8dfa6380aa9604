package lang

import (
	"context"
	"encoding/xml"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// Java source heuristics thresholds.
const (
	javaLargeClassLines = 500
	javaGodClassLines   = 1000
	javaGodClassMethods = 50
	javaLongMethodLines = 50
)

// JavaProfiler analyzes Java projects: build system, frameworks,
// architecture layering, quality anti-patterns, test conventions and a
// sampled security scan.
type JavaProfiler struct{}

// NewJavaProfiler creates a Java profiler.
func NewJavaProfiler() *JavaProfiler {
	return &JavaProfiler{}
}

// Language implements the Profiler interface.
func (p *JavaProfiler) Language() schema.Language {
	return schema.LangJava
}

// Regexes shared across Java passes. Compiled once; these are heuristics
// over raw text, intentionally tolerant of unusual formatting.
var (
	javaPackageRe      = regexp.MustCompile(`package\s+([\w.]+);`)
	javaAnnotationRe   = regexp.MustCompile(`@(\w+)`)
	javaImportRe       = regexp.MustCompile(`import\s+([\w.]+);`)
	javaPublicMethodRe = regexp.MustCompile(`\bpublic\s+\w+.*\(`)
	javaMethodStartRe  = regexp.MustCompile(`\b(public|private|protected)\s+\w+.*\(.*\)\s*\{`)
	javaExtendsRe      = regexp.MustCompile(`class\s+\w+\s+extends\s+(\w+)`)
	javaTestMethodRe   = regexp.MustCompile(`@Test\b`)

	javaHardcodedPasswordRe = regexp.MustCompile(`(?i)password\s*=\s*["'][^"']{3,}["']`)
	javaSQLConcatRe         = regexp.MustCompile(`Statement.*executeQuery\s*\(\s*["'].*\+`)
	javaPasswordPrintRe     = regexp.MustCompile(`(?i)System\.out\.print.*password`)

	gradleImplementationRe = regexp.MustCompile(`implementation\s+['"]([^'"]+)['"]`)
	gradlePluginRe         = regexp.MustCompile(`id\s+['"]([^'"]+)['"]`)
	gradleJavaVersionRe    = regexp.MustCompile(`sourceCompatibility\s*=\s*['"]?([0-9.]+)['"]?`)
)

// mavenProject is the subset of a POM the profiler cares about. Field
// names are matched by local name, so the Maven XML namespace needs no
// special handling.
type mavenProject struct {
	Properties   mavenProperties `xml:"properties"`
	Dependencies []mavenDep      `xml:"dependencies>dependency"`
	Plugins      []mavenPlugin   `xml:"build>plugins>plugin"`
	Modules      []string        `xml:"modules>module"`
}

type mavenProperties struct {
	JavaVersion    string `xml:"java.version"`
	CompilerSource string `xml:"maven.compiler.source"`
}

type mavenDep struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

type mavenPlugin struct {
	ArtifactID string `xml:"artifactId"`
}

// Analyze implements the Profiler interface.
func (p *JavaProfiler) Analyze(ctx context.Context, root string) (schema.MetricsMap, error) {
	javaFiles := collectFiles(root, ".java")
	metrics := schema.MetricsMap{}

	metrics.Merge(p.analyzeBuildSystem(root))
	metrics.Merge(p.analyzeStructure(root, javaFiles))
	metrics.Merge(p.analyzeFrameworkUsage(javaFiles))
	metrics.Merge(p.analyzeCodePatterns(javaFiles))
	metrics.Merge(p.analyzeLayering(javaFiles))
	metrics.Merge(p.analyzeTesting(javaFiles))
	metrics.Merge(p.analyzeSecurity(javaFiles))
	metrics.Merge(p.runCheckstyle(ctx, root, javaFiles))

	return metrics, nil
}

// analyzeBuildSystem detects the build tool and parses its manifests.
func (p *JavaProfiler) analyzeBuildSystem(root string) schema.MetricsMap {
	pomFiles := collectNamedFiles(root, "pom.xml")
	gradleFiles := collectPrefixFiles(root, "build.gradle")

	metrics := schema.MetricsMap{
		"java_has_maven":  len(pomFiles) > 0,
		"java_has_gradle": len(gradleFiles) > 0,
		"java_has_ant":    fileExists(filepath.Join(root, "build.xml")),
		"java_has_sbt":    len(collectNamedFiles(root, "build.sbt")) > 0,
	}
	metrics["java_has_build_system"] = metrics.Bool("java_has_maven") || metrics.Bool("java_has_gradle") ||
		metrics.Bool("java_has_ant") || metrics.Bool("java_has_sbt")

	if len(pomFiles) > 0 {
		metrics.Merge(p.analyzeMaven(pomFiles))
	}
	if len(gradleFiles) > 0 {
		metrics.Merge(p.analyzeGradle(gradleFiles))
	}
	return metrics
}

// analyzeMaven parses each POM, skipping malformed ones. The last POM that
// parses wins for scalar fields, matching the original scanner's behavior.
func (p *JavaProfiler) analyzeMaven(pomFiles []string) schema.MetricsMap {
	metrics := schema.MetricsMap{}

	for _, pomFile := range pomFiles {
		data, err := os.ReadFile(pomFile)
		if err != nil {
			continue
		}
		var project mavenProject
		if err := xml.Unmarshal(data, &project); err != nil {
			continue // malformed POM: this file contributes nothing
		}

		if project.Properties.CompilerSource != "" {
			metrics["java_version"] = project.Properties.CompilerSource
		} else if project.Properties.JavaVersion != "" {
			metrics["java_version"] = project.Properties.JavaVersion
		}

		metrics["maven_dependency_count"] = len(project.Dependencies)

		artifacts := make([]string, 0, len(project.Dependencies))
		for _, dep := range project.Dependencies {
			artifacts = append(artifacts, dep.GroupID+":"+dep.ArtifactID)
		}
		metrics.Merge(detectJavaFrameworks(artifacts))

		metrics["maven_plugin_count"] = len(project.Plugins)
		pluginSet := make(map[string]bool, len(project.Plugins))
		for _, plugin := range project.Plugins {
			pluginSet[plugin.ArtifactID] = true
		}
		metrics["has_checkstyle_plugin"] = pluginSet["maven-checkstyle-plugin"]
		metrics["has_spotbugs_plugin"] = pluginSet["spotbugs-maven-plugin"]
		metrics["has_jacoco_plugin"] = pluginSet["jacoco-maven-plugin"]
		metrics["has_surefire_plugin"] = pluginSet["maven-surefire-plugin"]

		metrics["is_maven_multimodule"] = len(project.Modules) > 0
		metrics["maven_module_count"] = len(project.Modules)
	}
	return metrics
}

// analyzeGradle extracts dependencies and plugins via line regexes. Gradle
// build scripts are Groovy/Kotlin programs; a regex scan over declaration
// lines is the accepted approximation here.
func (p *JavaProfiler) analyzeGradle(gradleFiles []string) schema.MetricsMap {
	metrics := schema.MetricsMap{}
	var dependencies, plugins []string

	for _, gradleFile := range gradleFiles {
		content, ok := readFileText(gradleFile)
		if !ok {
			continue
		}
		for _, m := range gradleImplementationRe.FindAllStringSubmatch(content, -1) {
			dependencies = append(dependencies, m[1])
		}
		for _, m := range gradlePluginRe.FindAllStringSubmatch(content, -1) {
			plugins = append(plugins, m[1])
		}
		if m := gradleJavaVersionRe.FindStringSubmatch(content); m != nil {
			metrics["java_version"] = m[1]
		}
	}

	metrics["gradle_dependency_count"] = len(dependencies)
	metrics["gradle_plugin_count"] = len(plugins)
	metrics.Merge(detectJavaFrameworks(dependencies))

	pluginSet := make(map[string]bool, len(plugins))
	for _, plugin := range plugins {
		pluginSet[plugin] = true
	}
	metrics["has_checkstyle_gradle"] = pluginSet["checkstyle"]
	metrics["has_spotbugs_gradle"] = pluginSet["com.github.spotbugs"]
	metrics["has_jacoco_gradle"] = pluginSet["jacoco"]

	return metrics
}

// detectJavaFrameworks classifies dependency coordinates into framework
// usage flags shared by the Maven and Gradle paths.
func detectJavaFrameworks(artifacts []string) schema.MetricsMap {
	containsAny := func(substr string) bool {
		for _, a := range artifacts {
			if strings.Contains(a, substr) {
				return true
			}
		}
		return false
	}
	springCount := 0
	for _, a := range artifacts {
		if strings.Contains(a, "org.springframework") {
			springCount++
		}
	}

	return schema.MetricsMap{
		"uses_spring":             springCount > 0,
		"spring_dependency_count": springCount,
		"uses_spring_boot":        containsAny("spring-boot"),
		"uses_spring_security":    containsAny("spring-security"),
		"uses_spring_data":        containsAny("spring-data"),
		"uses_hibernate":          containsAny("org.hibernate"),
		"uses_junit":              containsAny("junit"),
		"uses_mockito":            containsAny("mockito"),
		"uses_jackson":            containsAny("com.fasterxml.jackson"),
		"uses_apache_commons":     containsAny("org.apache.commons"),
	}
}

// analyzeStructure counts packages and type declarations, and checks for
// the standard Maven/Gradle source layout.
func (p *JavaProfiler) analyzeStructure(root string, javaFiles []string) schema.MetricsMap {
	packages := make(map[string]bool)
	mainClasses, testClasses := 0, 0
	abstractClasses, interfaces, enums := 0, 0, 0

	for _, javaFile := range javaFiles {
		content, ok := readFileText(javaFile)
		if !ok {
			continue
		}

		if m := javaPackageRe.FindStringSubmatch(content); m != nil {
			packages[m[1]] = true
		}
		if strings.Contains(content, "class ") {
			if isJavaTestPath(javaFile) {
				testClasses++
			} else {
				mainClasses++
			}
		}
		if strings.Contains(content, "abstract class") {
			abstractClasses++
		}
		if strings.Contains(content, "interface ") {
			interfaces++
		}
		if strings.Contains(content, "enum ") {
			enums++
		}
	}

	totalClasses := mainClasses + testClasses
	return schema.MetricsMap{
		"java_total_packages":          len(packages),
		"java_main_classes":            mainClasses,
		"java_test_classes":            testClasses,
		"java_abstract_classes":        abstractClasses,
		"java_interfaces":              interfaces,
		"java_enums":                   enums,
		"java_test_to_main_ratio":      float64(testClasses) / maxFloat(float64(mainClasses), 1),
		"java_avg_classes_per_package": float64(totalClasses) / maxFloat(float64(len(packages)), 1),
		"java_follows_standard_structure": dirExists(filepath.Join(root, "src", "main", "java")) &&
			dirExists(filepath.Join(root, "src", "test", "java")),
	}
}

// analyzeFrameworkUsage infers Spring/JPA/REST usage from annotation
// frequency over a sampled prefix of the source files.
func (p *JavaProfiler) analyzeFrameworkUsage(javaFiles []string) schema.MetricsMap {
	annotationCounts := make(map[string]int)
	importCounts := make(map[string]int)

	for _, javaFile := range sample(javaFiles, frameworkSampleLimit) {
		content, ok := readFileText(javaFile)
		if !ok {
			continue
		}
		for _, m := range javaAnnotationRe.FindAllStringSubmatch(content, -1) {
			annotationCounts[m[1]]++
		}
		for _, m := range javaImportRe.FindAllStringSubmatch(content, -1) {
			importCounts[strings.SplitN(m[1], ".", 2)[0]]++
		}
	}

	anyAnnotation := func(names ...string) bool {
		for _, name := range names {
			if annotationCounts[name] > 0 {
				return true
			}
		}
		return false
	}

	return schema.MetricsMap{
		"uses_spring_annotations": anyAnnotation("Controller", "Service", "Repository", "Component", "Autowired"),
		"uses_jpa_annotations":    anyAnnotation("Entity", "Table", "Id", "GeneratedValue", "Column"),
		"uses_rest_annotations":   anyAnnotation("RestController", "RequestMapping", "GetMapping", "PostMapping"),
		"top_annotations":         topCounts(annotationCounts, 10),
	}
}

// analyzeCodePatterns scans every file for the size-based anti-patterns:
// large classes, god classes, long methods and non-trivial inheritance.
func (p *JavaProfiler) analyzeCodePatterns(javaFiles []string) schema.MetricsMap {
	largeClasses, godClasses := 0, 0
	longMethods, deepInheritance := 0, 0

	for _, javaFile := range javaFiles {
		content, ok := readFileText(javaFile)
		if !ok {
			continue
		}
		lines := strings.Split(content, "\n")

		if len(lines) > javaLargeClassLines {
			largeClasses++
		}
		methodCount := len(javaPublicMethodRe.FindAllString(content, -1))
		if methodCount > javaGodClassMethods || len(lines) > javaGodClassLines {
			godClasses++
		}
		longMethods += countLongMethods(lines)

		if m := javaExtendsRe.FindStringSubmatch(content); m != nil {
			if m[1] != "Object" && m[1] != "Exception" {
				deepInheritance++
			}
		}
	}

	totalClasses := len(javaFiles)
	return schema.MetricsMap{
		"java_large_classes":            largeClasses,
		"java_god_classes":              godClasses,
		"java_long_methods":             longMethods,
		"java_deep_inheritance_classes": deepInheritance,
		"java_large_class_ratio":        float64(largeClasses) / maxFloat(float64(totalClasses), 1),
		"java_god_class_ratio":          float64(godClasses) / maxFloat(float64(totalClasses), 1),
	}
}

// countLongMethods tracks method bodies by brace balance and counts those
// exceeding the long-method threshold.
func countLongMethods(lines []string) int {
	longMethods := 0
	inMethod := false
	methodLength := 0
	braceCount := 0

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "//") {
			continue
		}

		if javaMethodStartRe.MatchString(stripped) {
			inMethod = true
			methodLength = 0
			braceCount = 1
			continue
		}
		if inMethod {
			methodLength++
			braceCount += strings.Count(stripped, "{") - strings.Count(stripped, "}")
			if braceCount == 0 {
				if methodLength > javaLongMethodLines {
					longMethods++
				}
				inMethod = false
			}
		}
	}
	return longMethods
}

// analyzeLayering classifies packages into architectural layers by
// substring and derives the organization score.
func (p *JavaProfiler) analyzeLayering(javaFiles []string) schema.MetricsMap {
	layerCounts := map[string]int{}

	for _, javaFile := range javaFiles {
		content, ok := readFileText(javaFile)
		if !ok {
			continue
		}
		m := javaPackageRe.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		pkg := strings.ToLower(m[1])
		switch {
		case containsAnySubstring(pkg, "controller", "web", "rest"):
			layerCounts["controller"]++
		case containsAnySubstring(pkg, "service", "business"):
			layerCounts["service"]++
		case containsAnySubstring(pkg, "repository", "dao", "data"):
			layerCounts["data"]++
		case containsAnySubstring(pkg, "model", "entity", "domain"):
			layerCounts["model"]++
		}
	}

	hasLayered := layerCounts["controller"] > 0 && layerCounts["service"] > 0 && layerCounts["data"] > 0

	return schema.MetricsMap{
		"java_controller_packages":        layerCounts["controller"],
		"java_service_packages":           layerCounts["service"],
		"java_data_packages":              layerCounts["data"],
		"java_model_packages":             layerCounts["model"],
		"java_has_layered_architecture":   hasLayered,
		"java_package_organization_score": packageOrganizationScore(layerCounts),
	}
}

// packageOrganizationScore rates layer separation on a 0-1 scale:
// 0.9 with three or more layers present, 0.6 with two, 0.3 otherwise
// (including the too-few-packages case).
func packageOrganizationScore(layerCounts map[string]int) float64 {
	total := 0
	layers := 0
	for _, count := range layerCounts {
		total += count
		if count > 0 {
			layers++
		}
	}
	if total < 3 {
		return 0.3
	}
	switch {
	case layers >= 3:
		return 0.9
	case layers == 2:
		return 0.6
	default:
		return 0.3
	}
}

// analyzeTesting counts @Test methods and classifies test files as unit or
// integration by path substring, defaulting to unit.
func (p *JavaProfiler) analyzeTesting(javaFiles []string) schema.MetricsMap {
	var testFiles []string
	mainCount := 0
	for _, javaFile := range javaFiles {
		if isJavaTestPath(javaFile) {
			testFiles = append(testFiles, javaFile)
		} else {
			mainCount++
		}
	}

	unitTests, integrationTests, testMethods := 0, 0, 0
	for _, testFile := range testFiles {
		content, ok := readFileText(testFile)
		if !ok {
			continue
		}
		testMethods += len(javaTestMethodRe.FindAllString(content, -1))

		lower := strings.ToLower(testFile)
		if containsAnySubstring(lower, "integration", "it") && !strings.Contains(lower, "unit") {
			integrationTests++
		} else {
			unitTests++
		}
	}

	return schema.MetricsMap{
		"java_test_files":             len(testFiles),
		"java_unit_test_files":        unitTests,
		"java_integration_test_files": integrationTests,
		"java_test_methods":           testMethods,
		"java_test_file_ratio":        float64(len(testFiles)) / maxFloat(float64(mainCount), 1),
		"java_avg_tests_per_file":     float64(testMethods) / maxFloat(float64(len(testFiles)), 1),
	}
}

// analyzeSecurity runs the sampled credential/SQL-injection scan.
func (p *JavaProfiler) analyzeSecurity(javaFiles []string) schema.MetricsMap {
	securityIssues, hardcodedCredentials, sqlInjectionRisks := 0, 0, 0

	for _, javaFile := range sample(javaFiles, securitySampleLimit) {
		content, ok := readFileText(javaFile)
		if !ok {
			continue
		}
		if javaHardcodedPasswordRe.MatchString(content) {
			hardcodedCredentials++
		}
		if javaSQLConcatRe.MatchString(content) {
			sqlInjectionRisks++
		}
		if javaPasswordPrintRe.MatchString(content) {
			securityIssues++
		}
	}

	return schema.MetricsMap{
		"java_security_issues":        securityIssues,
		"java_hardcoded_credentials":  hardcodedCredentials,
		"java_sql_injection_risks":    sqlInjectionRisks,
	}
}

// runCheckstyle invokes checkstyle when a configuration file is present.
// A missing binary or a timeout marks the tool unavailable; neither is a
// scan failure.
func (p *JavaProfiler) runCheckstyle(ctx context.Context, root string, javaFiles []string) schema.MetricsMap {
	metrics := schema.MetricsMap{"checkstyle_available": false}

	configs := collectPrefixFiles(root, "checkstyle")
	if len(configs) == 0 || len(javaFiles) == 0 {
		return metrics
	}

	toolCtx, cancel := context.WithTimeout(ctx, defaultToolTimeout)
	defer cancel()

	args := []string{"-c", configs[0]}
	args = append(args, sample(javaFiles, 20)...)
	out, err := exec.CommandContext(toolCtx, "checkstyle", args...).Output()
	if err != nil {
		return metrics
	}

	violations := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "[") {
			violations++
		}
	}
	metrics["checkstyle_available"] = true
	metrics["checkstyle_violations"] = violations
	return metrics
}

// isJavaTestPath reports whether a Java file lives under a test source
// root or follows the *Test.java suffix convention.
func isJavaTestPath(path string) bool {
	normalized := filepath.ToSlash(path)
	return strings.Contains(normalized, "/test/") ||
		strings.Contains(normalized, "src/test/") ||
		strings.HasSuffix(normalized, "Test.java")
}

// topCounts returns the n highest-count entries as a name→count map.
func topCounts(counts map[string]int, n int) map[string]int {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	top := make(map[string]int, len(entries))
	for _, e := range entries {
		top[e.name] = e.count
	}
	return top
}

// containsAnySubstring reports whether s contains any of the substrings.
func containsAnySubstring(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// collectNamedFiles returns all files under root with the exact base name.
func collectNamedFiles(root string, name string) []string {
	var files []string
	for _, path := range collectAllFiles(root) {
		if filepath.Base(path) == name {
			files = append(files, path)
		}
	}
	return files
}

// collectPrefixFiles returns all files under root whose base name starts
// with the given prefix (build.gradle matches build.gradle.kts too).
func collectPrefixFiles(root string, prefix string) []string {
	var files []string
	for _, path := range collectAllFiles(root) {
		if strings.HasPrefix(filepath.Base(path), prefix) {
			files = append(files, path)
		}
	}
	return files
}
