package bplus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	NULL  = &Null{}
	TRUE  = &BooleanObject{Value: true}
	FALSE = &BooleanObject{Value: false}
)

// Evaluator walks the AST and produces runtime values. Runtime failures are
// Error values in the value space, never Go errors or panics; a bad
// expression poisons its statement and nothing else.
type Evaluator struct {
	Out    io.Writer
	In     *bufio.Reader
	Errors *ErrorManager

	// MaxDepth caps user-function call nesting; crossing it yields a
	// stack-overflow Error value instead of blowing the Go stack.
	MaxDepth int
	depth    int
}

// NewEvaluator returns an evaluator wired to the process streams with the
// default Banglish error templates.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Out:      os.Stdout,
		In:       bufio.NewReader(os.Stdin),
		Errors:   NewErrorManager(),
		MaxDepth: 10000,
	}
}

func (e *Evaluator) diag(kind DiagnosticKind, params ...string) *ErrorObject {
	if e.Errors != nil {
		return &ErrorObject{Message: e.Errors.Format(NewDiagnostic(kind, params...))}
	}
	return &ErrorObject{Message: string(kind) + ": " + strings.Join(params, ", ")}
}

func (e *Evaluator) errorf(format string, args ...interface{}) *ErrorObject {
	return &ErrorObject{Message: fmt.Sprintf(format, args...)}
}

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == ERROR_OBJ
}

// Eval evaluates node in env.
func (e *Evaluator) Eval(node Node, env *Environment) Object {
	switch node := node.(type) {
	case *Program:
		return e.evalProgram(node, env)
	case *ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *BlockStatement:
		return e.evalBlockStatement(node, env)
	case *LetStatement:
		return e.evalLetStatement(node, env)
	case *AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ReturnStatement:
		val := e.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}
	case *WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ForStatement:
		return e.evalForStatement(node, env)
	case *BreakStatement:
		return &BreakSignal{}
	case *ContinueStatement:
		return &ContinueSignal{}
	case *CommentSingleLine, *CommentMultiLine:
		return NULL

	case *IntegerLiteral:
		return &Integer{Value: node.Value}
	case *StringLiteral:
		return &StringObject{Value: node.Value}
	case *Boolean:
		return nativeBoolToBooleanObject(node.Value)
	case *Identifier:
		return e.evalIdentifier(node, env)
	case *PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *InfixExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)
	case *IfExpression:
		return e.evalIfExpression(node, env)
	case *FunctionLiteral:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env}
	case *TemplateLiteral:
		return e.evalTemplateLiteral(node, env)
	case *CallExpression:
		fn := e.Eval(node.Function, env)
		if isError(fn) {
			return fn
		}
		args, errObj := e.evalExpressions(node.Arguments, env)
		if errObj != nil {
			return errObj
		}
		return e.applyFunction(fn, args)
	}
	return NULL
}

func (e *Evaluator) evalProgram(program *Program, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *ErrorObject:
			return result
		case *BreakSignal, *ContinueSignal:
			// Loop signals outside any loop dissolve at the top level.
			return NULL
		}
	}
	return result
}

// evalBlockStatement runs the statements of a block without unwrapping
// control signals, so ferot, thamo, choluk and errors keep unwinding.
func (e *Evaluator) evalBlockStatement(block *BlockStatement, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range block.Statements {
		result = e.Eval(stmt, env)
		if result != nil {
			switch result.Type() {
			case RETURN_VALUE_OBJ, ERROR_OBJ, BREAK_OBJ, CONTINUE_OBJ:
				return result
			}
		}
	}
	return result
}

func (e *Evaluator) evalLetStatement(node *LetStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	env.Define(node.Name.Value, val, node.Mutable)
	return NULL
}

func (e *Evaluator) evalAssignStatement(node *AssignStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if _, ok := env.Assign(node.Name.Value, val); !ok {
		if mutable, found := env.IsMutable(node.Name.Value); found && !mutable {
			return e.errorf("dhrubok '%s' poriborton kora jay na", node.Name.Value)
		}
		return e.diag(ErrUndefinedVariable, node.Name.Value)
	}
	return NULL
}

func (e *Evaluator) evalWhileStatement(node *WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			break
		}
		// Each pass gets its own scope; dhoro inside the body never leaks out.
		result := e.Eval(node.Body, NewEnclosedEnvironment(env))
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_OBJ:
				return NULL
			case CONTINUE_OBJ:
				continue
			}
		}
	}
	return NULL
}

func (e *Evaluator) evalForStatement(node *ForStatement, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)
	if node.Init != nil {
		if result := e.Eval(node.Init, loopEnv); isError(result) {
			return result
		}
	}
	for {
		if node.Condition != nil {
			cond := e.Eval(node.Condition, loopEnv)
			if isError(cond) {
				return cond
			}
			if !isTruthy(cond) {
				break
			}
		}
		result := e.Eval(node.Body, NewEnclosedEnvironment(loopEnv))
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_OBJ:
				return NULL
			}
		}
		if node.Update != nil {
			if result := e.Eval(node.Update, loopEnv); isError(result) {
				return result
			}
		}
	}
	return NULL
}

func (e *Evaluator) evalIdentifier(node *Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return e.diag(ErrUndefinedVariable, node.Value)
}

func (e *Evaluator) evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		if right.Type() != INTEGER_OBJ {
			return e.diag(ErrTypeMismatch, string(INTEGER_OBJ), string(right.Type()))
		}
		return &Integer{Value: -right.(*Integer).Value}
	default:
		return e.errorf("unknown operator: %s%s", operator, right.Type())
	}
}

func isAndOperator(op string) bool { return op == "ebong" || op == "and" || op == "&&" }
func isOrOperator(op string) bool {
	return op == "othoba" || op == "ba" || op == "or" || op == "||"
}

func (e *Evaluator) evalInfixExpression(operator string, left, right Object) Object {
	switch {
	case isAndOperator(operator):
		return nativeBoolToBooleanObject(isTruthy(left) && isTruthy(right))
	case isOrOperator(operator):
		return nativeBoolToBooleanObject(isTruthy(left) || isTruthy(right))
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfixExpression(operator, left.(*Integer), right.(*Integer))
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return e.evalStringInfixExpression(operator, left.(*StringObject), right.(*StringObject))
	case operator == "==" || operator == "!=":
		lb, lok := coerceBool(left)
		rb, rok := coerceBool(right)
		if !lok || !rok {
			return e.diag(ErrTypeMismatch, string(left.Type()), string(right.Type()))
		}
		if operator == "==" {
			return nativeBoolToBooleanObject(lb == rb)
		}
		return nativeBoolToBooleanObject(lb != rb)
	case left.Type() != right.Type():
		return e.diag(ErrTypeMismatch, string(left.Type()), string(right.Type()))
	default:
		return e.errorf("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

// coerceBool maps a value to a boolean for equality between mixed types.
// Booleans and the surface spellings "Ha"/"Na" coerce; nothing else does.
func coerceBool(obj Object) (bool, bool) {
	switch obj := obj.(type) {
	case *BooleanObject:
		return obj.Value, true
	case *StringObject:
		switch obj.Value {
		case "Ha":
			return true, true
		case "Na":
			return false, true
		}
	}
	return false, false
}

func (e *Evaluator) evalIntegerInfixExpression(operator string, left, right *Integer) Object {
	l, r := left.Value, right.Value
	switch operator {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return e.diag(ErrDivisionByZero)
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return e.diag(ErrDivisionByZero)
		}
		return &Integer{Value: l % r}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "==":
		return nativeBoolToBooleanObject(l == r)
	case "!=":
		return nativeBoolToBooleanObject(l != r)
	default:
		return e.errorf("unknown operator: INTEGER %s INTEGER", operator)
	}
}

func (e *Evaluator) evalStringInfixExpression(operator string, left, right *StringObject) Object {
	switch operator {
	case "+":
		return &StringObject{Value: left.Value + right.Value}
	case "==":
		return nativeBoolToBooleanObject(left.Value == right.Value)
	case "!=":
		return nativeBoolToBooleanObject(left.Value != right.Value)
	default:
		return e.errorf("unknown operator: STRING %s STRING", operator)
	}
}

func (e *Evaluator) evalIfExpression(node *IfExpression, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.Eval(node.Consequence, NewEnclosedEnvironment(env))
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, NewEnclosedEnvironment(env))
	}
	return NULL
}

// evalTemplateLiteral renders { text (expr) text } to a single string. Parts
// join with single spaces, matching how the lexer split the bare words.
func (e *Evaluator) evalTemplateLiteral(node *TemplateLiteral, env *Environment) Object {
	pieces := make([]string, 0, len(node.Parts))
	for _, part := range node.Parts {
		val := e.Eval(part, env)
		if isError(val) {
			return val
		}
		pieces = append(pieces, val.Inspect())
	}
	return &StringObject{Value: strings.Join(pieces, " ")}
}

func (e *Evaluator) evalExpressions(exprs []Expression, env *Environment) ([]Object, *ErrorObject) {
	result := make([]Object, 0, len(exprs))
	for _, expr := range exprs {
		val := e.Eval(expr, env)
		if errObj, ok := val.(*ErrorObject); ok {
			return nil, errObj
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) applyFunction(fn Object, args []Object) Object {
	switch fn := fn.(type) {
	case *Function:
		if e.depth >= e.MaxDepth {
			return e.diag(ErrStackOverflow)
		}
		e.depth++
		defer func() { e.depth-- }()

		extended := e.extendFunctionEnv(fn, args)
		evaluated := e.Eval(fn.Body, extended)
		return unwrapCallResult(evaluated)
	case *Builtin:
		return e.applyBuiltin(fn, args)
	default:
		return e.diag(ErrUndefinedFunction, fn.Inspect())
	}
}

// extendFunctionEnv binds arguments in a fresh frame over the defining
// environment. Extra arguments are dropped; missing parameters stay unbound
// and only fail if the body reads them.
func (e *Evaluator) extendFunctionEnv(fn *Function, args []Object) *Environment {
	env := NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		if i < len(args) {
			env.Define(param.Value, args[i], true)
		}
	}
	return env
}

// unwrapCallResult strips the ReturnValue wrapper at the call boundary and
// absorbs loop signals that escaped a function with no enclosing loop.
func unwrapCallResult(obj Object) Object {
	switch obj := obj.(type) {
	case *ReturnValue:
		return obj.Value
	case *BreakSignal, *ContinueSignal:
		return NULL
	default:
		return obj
	}
}

// applyBuiltin isolates native faults: a panicking builtin yields an Error
// value instead of taking the host down.
func (e *Evaluator) applyBuiltin(fn *Builtin, args []Object) (result Object) {
	defer func() {
		if r := recover(); r != nil {
			result = e.diag(ErrInternal, fmt.Sprintf("%v", r))
		}
	}()
	return fn.Fn(args...)
}

func nativeBoolToBooleanObject(v bool) *BooleanObject {
	if v {
		return TRUE
	}
	return FALSE
}

// isTruthy implements the Bangla truthiness rules: only Na, null and the
// string "Na" are false. Every other value, Integer 0 and the empty string
// included, is true.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Null:
		return false
	case *BooleanObject:
		return obj.Value
	case *StringObject:
		return obj.Value != "Na"
	default:
		return true
	}
}
