// Package directory creates the folder tree the bid documents are
// collected in: a blank master copy with one folder per document and
// per goods line, plus two empty copies.
package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klytics/bidkit/internal/project"
)

// DefaultPrefix starts the root folder name.
const DefaultPrefix = "投标文件"

// Copies are the top-level folders. The first is the master copy that
// holds the full tree.
var Copies = []string{"空白本", "副本1", "副本2"}

// Volumes sit under the master copy.
var Volumes = []string{
	"1.商务技术文件（投标函部分）",
	"2.商务技术文件（技术标部分）",
	"3.商务技术文件（经济标部分）",
	"4.商务技术文件（商务标部分）",
}

// goodsFolder is the technical folder that gets one subfolder per goods line.
const goodsFolder = "物资投标响应相关文件"

// Status reports what happened to one folder.
type Status string

const (
	StatusCreated Status = "created"
	StatusExisted Status = "existed"
	StatusPlanned Status = "planned" // dry run
)

// Result is the outcome for one folder of the plan.
type Result struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
}

// TechFolders lists the numbered folders of the technical volume.
func TechFolders(p *project.Project) []string {
	names := []string{
		"合同条款偏离表",
		"采购需求偏离表",
		goodsFolder,
		"质量保证声明",
		"包装方案",
		"运输相关文件",
		"物资自检验收方案",
		"物资第三方检验相关文件",
		"对外实施工作主体责任落实承诺书",
	}
	if p.TechService {
		names = append(names, "技术服务承诺")
	}
	if p.AfterSales {
		names = append(names, "售后服务承诺")
	}
	if p.Training {
		names = append(names, "来华培训和接待承诺")
	}
	names = append(names, "舆情应对方案", "风险防范化解方案", "物资中主要标的的生产企业三体系资料", "其它说明和资料")

	for i, n := range names {
		names[i] = strconv.Itoa(i+1) + "." + n
	}
	return names
}

// GoodsFolder names the folder of one goods line, "<serial>.<name>".
// Line breaks in the name become "-".
func GoodsFolder(c project.Commodity) string {
	name := strings.Join(strings.Fields(strings.ReplaceAll(c.Name, "\n", "-")), " ")
	return project.SafeName(c.Serial + "." + name)
}

// RootName is the root folder name for a project.
func RootName(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + project.SafeName(name)
}

// Plan lists every folder to create under parent, parents before
// children.
func Plan(p *project.Project, parent, prefix string) []string {
	root := filepath.Join(parent, RootName(prefix, p.Name))
	master := filepath.Join(root, Copies[0])
	tech := filepath.Join(master, Volumes[1])

	dirs := []string{root}
	for _, c := range Copies {
		dirs = append(dirs, filepath.Join(root, c))
	}
	for _, v := range Volumes {
		dirs = append(dirs, filepath.Join(master, v))
	}

	var goods string
	for _, f := range TechFolders(p) {
		path := filepath.Join(tech, f)
		dirs = append(dirs, path)
		if strings.HasSuffix(f, "."+goodsFolder) {
			goods = path
		}
	}
	for _, item := range p.Items() {
		dirs = append(dirs, filepath.Join(goods, GoodsFolder(item)))
	}
	return dirs
}

// Make creates the folders of Plan. Existing folders are kept and
// reported as such. With dryRun nothing is touched.
func Make(p *project.Project, parent, prefix string, dryRun bool) ([]Result, error) {
	plan := Plan(p, parent, prefix)
	results := make([]Result, 0, len(plan))
	for _, dir := range plan {
		if dryRun {
			results = append(results, Result{Path: dir, Status: StatusPlanned})
			continue
		}

		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			results = append(results, Result{Path: dir, Status: StatusExisted})
			continue
		case err == nil:
			return results, fmt.Errorf("could not create folder %s: a file with that name exists", dir)
		case !errors.Is(err, os.ErrNotExist):
			return results, fmt.Errorf("could not inspect %s: %w", dir, err)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return results, fmt.Errorf("could not create folder %s: %w", dir, err)
		}
		results = append(results, Result{Path: dir, Status: StatusCreated})
	}
	return results, nil
}

// Count tallies results by status.
func Count(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
