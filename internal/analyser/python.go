package analyser

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"pymetrics/internal/model"
)

// PythonAnalyser 是 Python 语言专用的逐行度量分析器。
//
// 分类规则是逐行扫描而不是完整语法解析：
// - 去掉前导空白后以 # 开头的行计为注释
// - 以三引号开头的整块（docstring 风格）逐行计为注释
// - 其余非空白行计为代码
// - def / async def 开头且后跟标识符的行使方法数 +1
// 行中途出现的三引号字符串不做跨行跟踪，这是已知的近似，不是错误。
type PythonAnalyser struct{}

// Language 返回语言标识。
func (a *PythonAnalyser) Language() string {
	return "python"
}

// Extensions 返回 Python 后缀。
func (a *PythonAnalyser) Extensions() []string {
	return []string{".py", ".pyi"}
}

// Analyse 使用独立的行扫描引擎执行流式统计。
// 对任意输入都返回结果：空输入得到全零记录，
// 未闭合的三引号块按最后一次出现的定界符状态延续到文件末尾。
func (a *PythonAnalyser) Analyse(reader io.Reader) (model.MetricsRecord, error) {
	engine := &pythonLineEngine{}
	return engine.analyse(reader)
}

// pythonLineEngine 保存跨行的扫描状态。
// docstring 块经常跨行，必须在流式处理中持续保留定界符状态。
type pythonLineEngine struct {
	inDocstring    bool
	docstringDelim string
}

// analyse 流式读取并逐行统计。
func (e *pythonLineEngine) analyse(reader io.Reader) (model.MetricsRecord, error) {
	var metrics model.MetricsRecord

	bufferedReader := bufio.NewReader(reader)

	for {
		line, err := bufferedReader.ReadString('\n')
		// 完整 EOF（无残余字符）直接结束，
		// 末尾换行符之后的空段因此不会被计为额外一行。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		// 读取过程中出现非 EOF 错误时，返回已知错误以便上层感知。
		if err != nil && !errors.Is(err, io.EOF) {
			return metrics, err
		}

		stripped := strings.TrimSpace(normalizeLine(line))
		isComment := e.processLine(stripped, &metrics)
		applyLineClassification(&metrics, stripped, isComment)

		// EOF 但仍有本行内容时，需要在本轮统计后再退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return metrics, nil
}

// processLine 判定单行是否为注释，并顺带累计方法定义数。
// 入参是已去掉两端空白的行内容。
func (e *pythonLineEngine) processLine(stripped string, metrics *model.MetricsRecord) bool {
	if e.inDocstring {
		// 块内每一行都是注释，遇到同种定界符才退出。
		if strings.Contains(stripped, e.docstringDelim) {
			e.inDocstring = false
			e.docstringDelim = ""
		}
		return true
	}

	if delim, ok := docstringDelimiter(stripped); ok {
		// 行首三引号按 docstring 处理：
		// 同一行只出现一次定界符则进入跨行块，出现两次则单行闭合。
		if strings.Count(stripped, delim) == 1 {
			e.inDocstring = true
			e.docstringDelim = delim
		}
		return true
	}

	if strings.HasPrefix(stripped, "#") {
		return true
	}

	if isMethodDefinition(stripped) {
		metrics.Methods++
	}

	return false
}

// docstringDelimiter 检查行首是否为三引号定界符。
func docstringDelimiter(stripped string) (string, bool) {
	if strings.HasPrefix(stripped, `"""`) {
		return `"""`, true
	}
	if strings.HasPrefix(stripped, "'''") {
		return "'''", true
	}
	return "", false
}

// isMethodDefinition 判断行首是否为函数/方法定义。
// 要求 def（可带 async 前缀）之后出现空白和标识符起始字符，
// 与缩进层级无关，definitely 这类前缀相同的标识符不会误判。
func isMethodDefinition(stripped string) bool {
	rest := stripped
	if after, ok := strings.CutPrefix(rest, "async"); ok {
		trimmed := strings.TrimLeft(after, " \t")
		if trimmed == after {
			return false
		}
		rest = trimmed
	}

	after, ok := strings.CutPrefix(rest, "def")
	if !ok {
		return false
	}

	trimmed := strings.TrimLeft(after, " \t")
	if trimmed == after || trimmed == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(trimmed)
	return unicode.IsLetter(first) || first == '_'
}
